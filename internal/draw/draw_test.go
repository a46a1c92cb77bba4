package draw

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

const maxNumber = 50

func TestClaimValidation(t *testing.T) {
	cases := []struct {
		name    string
		setup   State
		cmd     Command
		wantErr error
	}{
		{
			name:    "zero is out of range",
			setup:   NewEmptyState(),
			cmd:     Command{Type: CmdClaim, Number: 0},
			wantErr: ErrOutOfRange,
		},
		{
			name:    "negative is out of range",
			setup:   NewEmptyState(),
			cmd:     Command{Type: CmdClaim, Number: -3},
			wantErr: ErrOutOfRange,
		},
		{
			name:    "above pool max is out of range",
			setup:   NewEmptyState(),
			cmd:     Command{Type: CmdClaim, Number: 51},
			wantErr: ErrOutOfRange,
		},
		{
			name: "claimed number is rejected",
			setup: State{
				Used:    map[int]bool{7: true},
				Drawers: map[string][]string{},
				Numbers: map[string]map[string]int{},
			},
			cmd:     Command{Type: CmdClaim, Number: 7},
			wantErr: ErrAlreadyClaimed,
		},
		{
			name:    "unknown command type",
			setup:   NewEmptyState(),
			cmd:     Command{Type: "Shuffle"},
			wantErr: ErrUnsupportedCommand,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Apply(tc.setup, tc.cmd, maxNumber)
			require.True(t, errors.Is(err, tc.wantErr), "got %v", err)
		})
	}
}

func TestClaimRecordsTopicAndUser(t *testing.T) {
	s := NewEmptyState()

	next, err := Apply(s, Command{Type: CmdClaim, Number: 12, Topic: "spring", User: "ana"}, maxNumber)
	require.NoError(t, err)

	require.True(t, next.Used[12])
	require.Equal(t, []string{"ana"}, next.Drawers["spring"])
	require.Equal(t, 12, next.Numbers["spring"]["ana"])

	// Original state untouched.
	require.Empty(t, s.Used)
}

func TestClaimWithoutTopicOnlyMarksNumber(t *testing.T) {
	next, err := Apply(NewEmptyState(), Command{Type: CmdClaim, Number: 3}, maxNumber)
	require.NoError(t, err)
	require.True(t, next.Used[3])
	require.Empty(t, next.Drawers)
	require.Empty(t, next.Numbers)
}

func TestReclaimOverwritesAssignmentKeepsRoster(t *testing.T) {
	s, err := Apply(NewEmptyState(), Command{Type: CmdClaim, Number: 5, Topic: "spring", User: "ana"}, maxNumber)
	require.NoError(t, err)

	s, err = Apply(s, Command{Type: CmdClaim, Number: 9, Topic: "spring", User: "ana"}, maxNumber)
	require.NoError(t, err)

	require.Len(t, s.Drawers["spring"], 1)
	require.Equal(t, 9, s.Numbers["spring"]["ana"])
	// Both numbers stay claimed; only the assignment moves.
	require.ElementsMatch(t, []int{5, 9}, s.UsedNumbers())
}

func TestResetRequiresAdmin(t *testing.T) {
	s, err := Apply(NewEmptyState(), Command{Type: CmdClaim, Number: 5, Topic: "spring", User: "ana"}, maxNumber)
	require.NoError(t, err)

	denied, err := Apply(s, Command{Type: CmdReset}, maxNumber)
	require.ErrorIs(t, err, ErrForbidden)
	require.Equal(t, s.UsedNumbers(), denied.UsedNumbers())

	wiped, err := Apply(s, Command{Type: CmdReset, IsAdmin: true}, maxNumber)
	require.NoError(t, err)
	require.Empty(t, wiped.UsedNumbers())
	require.Empty(t, wiped.Drawers)
	require.Empty(t, wiped.Numbers)
}

func TestCloneIsolatesSnapshot(t *testing.T) {
	s, err := Apply(NewEmptyState(), Command{Type: CmdClaim, Number: 5, Topic: "spring", User: "ana"}, maxNumber)
	require.NoError(t, err)

	snap := s.Clone()
	s.Used[6] = true
	s.Drawers["spring"] = append(s.Drawers["spring"], "bea")
	s.Numbers["spring"]["ana"] = 40

	require.Equal(t, []int{5}, snap.UsedNumbers())
	require.Equal(t, []string{"ana"}, snap.Drawers["spring"])
	require.Equal(t, 5, snap.Numbers["spring"]["ana"])
}

func TestStateJSONLayout(t *testing.T) {
	s, err := Apply(NewEmptyState(), Command{Type: CmdClaim, Number: 17, Topic: "summer", User: "ana"}, maxNumber)
	require.NoError(t, err)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	require.JSONEq(t,
		`{"usedNumbers":[17],"topicDrawers":{"summer":["ana"]},"topicNumbers":{"summer":{"ana":17}}}`,
		string(data))

	var back State
	require.NoError(t, json.Unmarshal(data, &back))
	require.True(t, back.Used[17])
	require.Equal(t, 17, back.Numbers["summer"]["ana"])
}
