package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/seating"
)

const sampleLayout = `{
  "data": {
    "seatLayout": [
      {
        "floor_name": "KA",
        "layout": [
          [
            {"seat_number": "KA-1", "ticket_id": 101, "seat_availability": 0},
            {"seat_number": "KA-2", "ticket_id": 102, "seat_availability": 1},
            {"seat_number": "KA-3", "ticket_id": 103, "seat_availability": 1},
            {"seat_number": "KA-4", "ticket_id": 104, "seat_availability": 1}
          ]
        ]
      }
    ]
  }
}`

const fullLayout = `[
  {
    "floor_name": "KA",
    "layout": [[{"seat_number": "KA-1", "ticket_id": "101", "seat_availability": 0}]]
  }
]`

func TestRunSelect_DesiredSeatsWithNeighbour(t *testing.T) {
	// Arrange
	var out bytes.Buffer

	// Act
	err := runSelect(&out, []byte(sampleLayout), []string{"KA-3"}, 2, false)

	// Assert
	require.NoError(t, err)
	text := out.String()
	assert.Contains(t, text, "Seat layout (3 of 4 available)")
	assert.Contains(t, text, "[x] KA-1")
	assert.Contains(t, text, "[ ] KA-2")
	assert.Contains(t, text, "[*] KA-3")
	assert.Contains(t, text, "[*] KA-4")
	assert.Contains(t, text, "Selected 2 of 2 seat(s) by desired seats")
	assert.Contains(t, text, "1. KA-3  coach KA  ticket 103")
	assert.Contains(t, text, "2. KA-4  coach KA  ticket 104")
}

func TestRunSelect_NothingAvailable(t *testing.T) {
	var out bytes.Buffer

	err := runSelect(&out, []byte(fullLayout), nil, 4, false)

	assert.ErrorIs(t, err, seating.ErrNoSeatsAvailable)
	assert.Contains(t, out.String(), "No seats would be selected")
}

func TestRunSelect_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name     string
		layout   string
		maxSeats int
	}{
		{name: "not json", layout: "<html>", maxSeats: 1},
		{name: "empty layout", layout: "[]", maxSeats: 1},
		{name: "zero max seats", layout: sampleLayout, maxSeats: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			assert.Error(t, runSelect(&out, []byte(tt.layout), nil, tt.maxSeats, false))
		})
	}
}

func TestSelectCommand_ReadsLayoutFile(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "layout.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleLayout), 0o644))

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"select", "--layout", path, "--desired-seats", "KA-2", "--max-seats", "1", "--no-color"})

	// Act
	err := root.Execute()

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out.String(), "1. KA-2  coach KA  ticket 102")
}

func TestSelectCommand_RequiresLayout(t *testing.T) {
	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"select"})

	assert.Error(t, root.Execute())
}
