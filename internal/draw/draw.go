package draw

import (
	"encoding/json"
	"errors"
	"sort"
)

var ErrAlreadyClaimed = errors.New("already claimed")
var ErrOutOfRange = errors.New("number out of range")
var ErrForbidden = errors.New("admin required")
var ErrUnsupportedCommand = errors.New("unsupported command")

// State is the whole aggregate: the claimed-number set plus the per-topic
// drawer rosters and per-topic per-user assignments. It is persisted and
// broadcast as one unit; partial writes never happen.
type State struct {
	Used    map[int]bool
	Drawers map[string][]string
	Numbers map[string]map[string]int
}

type CommandType string

const (
	CmdClaim CommandType = "ClaimNumber"
	CmdReset CommandType = "Reset"
)

type Command struct {
	Type    CommandType
	Number  int
	Topic   string
	User    string
	IsAdmin bool
}

// Apply runs one command against s and returns the resulting state. It never
// mutates s: callers that reject the result can keep using the old value,
// which is what makes persistence rollback trivial. MaxNumber bounds the pool.
func Apply(s State, cmd Command, maxNumber int) (State, error) {
	switch cmd.Type {
	case CmdClaim:
		if cmd.Number < 1 || cmd.Number > maxNumber {
			return s, ErrOutOfRange
		}
		if s.Used[cmd.Number] {
			return s, ErrAlreadyClaimed
		}

		next := s.Clone()
		next.Used[cmd.Number] = true
		if cmd.Topic != "" && cmd.User != "" {
			if !hasDrawer(next.Drawers[cmd.Topic], cmd.User) {
				next.Drawers[cmd.Topic] = append(next.Drawers[cmd.Topic], cmd.User)
			}
			if next.Numbers[cmd.Topic] == nil {
				next.Numbers[cmd.Topic] = map[string]int{}
			}
			// Overwrites any earlier number the user drew under this topic.
			next.Numbers[cmd.Topic][cmd.User] = cmd.Number
		}
		return next, nil

	case CmdReset:
		if !cmd.IsAdmin {
			return s, ErrForbidden
		}
		return NewEmptyState(), nil

	default:
		return s, ErrUnsupportedCommand
	}
}

func hasDrawer(roster []string, user string) bool {
	for _, u := range roster {
		if u == user {
			return true
		}
	}
	return false
}

func NewEmptyState() State {
	return State{
		Used:    map[int]bool{},
		Drawers: map[string][]string{},
		Numbers: map[string]map[string]int{},
	}
}

// Clone deep-copies the aggregate so snapshots handed to readers and
// subscribers can never observe a later mutation.
func (s State) Clone() State {
	c := NewEmptyState()
	for n := range s.Used {
		c.Used[n] = true
	}
	for topic, roster := range s.Drawers {
		c.Drawers[topic] = append([]string(nil), roster...)
	}
	for topic, byUser := range s.Numbers {
		m := make(map[string]int, len(byUser))
		for user, n := range byUser {
			m[user] = n
		}
		c.Numbers[topic] = m
	}
	return c
}

// UsedNumbers returns the claimed set as a sorted slice, the shape the query
// surface and the persisted record both use.
func (s State) UsedNumbers() []int {
	nums := make([]int, 0, len(s.Used))
	for n := range s.Used {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

// stateRecord is the persisted/wire layout of the aggregate.
type stateRecord struct {
	UsedNumbers  []int                     `json:"usedNumbers"`
	TopicDrawers map[string][]string       `json:"topicDrawers"`
	TopicNumbers map[string]map[string]int `json:"topicNumbers"`
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(stateRecord{
		UsedNumbers:  s.UsedNumbers(),
		TopicDrawers: s.Drawers,
		TopicNumbers: s.Numbers,
	})
}

func (s *State) UnmarshalJSON(data []byte) error {
	var rec stateRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	*s = NewEmptyState()
	for _, n := range rec.UsedNumbers {
		s.Used[n] = true
	}
	for topic, roster := range rec.TopicDrawers {
		s.Drawers[topic] = roster
	}
	for topic, byUser := range rec.TopicNumbers {
		s.Numbers[topic] = byUser
	}
	return nil
}
