package types

// Client -> Server
// ClaimNumber:
//   number: int (1..MAX_NUMBER)
//   topicId: string (optional)
//   userName: string (optional)
//
// Reset:
//   isAdmin: boolean

// Server -> Client
// StateSnapshot:
//   version: number
//   state:
//     usedNumbers: number[]
//     topicDrawers: { [topicId]: string[] }
//     topicNumbers: { [topicId]: { [userName]: number } }
//
// ClaimResult:
//   success: boolean
//   message: string (present on failure, e.g. "already claimed")
//
// Error:
//   error: string
