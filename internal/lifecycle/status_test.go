package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"pending to assigned", StatusPending, StatusAssigned, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to in_progress", StatusPending, StatusInProgress, false},
		{"pending to completed", StatusPending, StatusCompleted, false},
		{"assigned to in_progress", StatusAssigned, StatusInProgress, true},
		{"assigned to cancelled", StatusAssigned, StatusCancelled, true},
		{"assigned to completed", StatusAssigned, StatusCompleted, false},
		{"assigned back to pending", StatusAssigned, StatusPending, false},
		{"in_progress to completed", StatusInProgress, StatusCompleted, true},
		{"in_progress to cancelled", StatusInProgress, StatusCancelled, true},
		{"in_progress back to assigned", StatusInProgress, StatusAssigned, false},
		{"completed is terminal", StatusCompleted, StatusCancelled, false},
		{"cancelled is terminal", StatusCancelled, StatusPending, false},
		{"cancelled to completed", StatusCancelled, StatusCompleted, false},
		{"self transition", StatusPending, StatusPending, false},
		{"unknown from", Status("Unknown"), StatusAssigned, false},
		{"unknown to", StatusPending, Status("Unknown"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransition(tc.from, tc.to))
		})
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusAssigned, StatusInProgress, StatusCompleted, StatusCancelled} {
		assert.True(t, ValidStatus(s), "expected %q to be valid", s)
	}
	assert.False(t, ValidStatus(Status("InProgress")))
	assert.False(t, ValidStatus(Status("in_progress")))
	assert.False(t, ValidStatus(Status("")))
}

func TestTerminal(t *testing.T) {
	assert.True(t, Terminal(StatusCompleted))
	assert.True(t, Terminal(StatusCancelled))
	assert.False(t, Terminal(StatusPending))
	assert.False(t, Terminal(StatusAssigned))
	assert.False(t, Terminal(StatusInProgress))
}

func TestEditable(t *testing.T) {
	assert.True(t, Editable(StatusPending))
	assert.True(t, Editable(StatusAssigned))
	assert.False(t, Editable(StatusInProgress))
	assert.False(t, Editable(StatusCompleted))
	assert.False(t, Editable(StatusCancelled))
}
