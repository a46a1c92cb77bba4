package types

import "github.com/nwestbury/lucky-draw-backend/internal/draw"

type ClientMessage struct {
	Type     string `json:"type"`
	Number   int    `json:"number,omitempty"`
	TopicID  string `json:"topicId,omitempty"`
	UserName string `json:"userName,omitempty"`
	IsAdmin  bool   `json:"isAdmin,omitempty"`
}

type ServerMessage struct {
	Type    string      `json:"type"` // "StateSnapshot" | "ClaimResult" | "Error"
	Version int         `json:"version,omitempty"`
	State   *draw.State `json:"state,omitempty"`
	Success *bool       `json:"success,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}
