package seating_test

import (
	"fmt"
	"testing"

	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/seating"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildCoach lays out seats 1..total of a coach in a single row.
// Seat numbers are "<name>-<n>" and ticket ids "<name>#<n>".
func buildCoach(name string, total int, available ...int) seating.Coach {
	open := make(map[int]bool, len(available))
	for _, n := range available {
		open[n] = true
	}
	row := make([]seating.Seat, 0, total)
	for n := 1; n <= total; n++ {
		row = append(row, seating.Seat{
			Number:    fmt.Sprintf("%s-%d", name, n),
			TicketID:  fmt.Sprintf("%s#%d", name, n),
			Available: open[n],
		})
	}
	return seating.Coach{Name: name, Rows: [][]seating.Seat{row}}
}

func mustRequest(t *testing.T, desired []string, max int) seating.SelectionRequest {
	t.Helper()
	req, err := seating.NewSelectionRequest(desired, max)
	require.NoError(t, err)
	return req
}

func TestSelect_SingleSeatAlwaysAvailable(t *testing.T) {
	maps := []seating.SeatMap{
		seating.NewSeatMap(buildCoach("KA", 10, 10)),
		seating.NewSeatMap(buildCoach("KA", 10), buildCoach("KHA", 6, 2, 3)),
		seating.NewSeatMap(buildCoach("GA", 4, 1, 2, 3, 4)),
	}
	for i, m := range maps {
		for _, desired := range [][]string{nil, {"KA-1"}, {"ZZ-9"}} {
			t.Run(fmt.Sprintf("map%d/%v", i, desired), func(t *testing.T) {
				// Act
				result, err := seating.Select(m, mustRequest(t, desired, 1))

				// Assert
				require.NoError(t, err)
				require.Equal(t, 1, result.Len())
				assert.True(t, seatIsAvailable(m, result.TicketIDs()[0]))
			})
		}
	}
}

func seatIsAvailable(m seating.SeatMap, ticketID string) bool {
	for _, c := range m.Coaches {
		for _, s := range c.AvailableSeats() {
			if s.TicketID == ticketID {
				return true
			}
		}
	}
	return false
}

func TestSelect_NoAvailableSeats(t *testing.T) {
	// Arrange
	m := seating.NewSeatMap(buildCoach("KA", 10), buildCoach("KHA", 5))

	for _, desired := range [][]string{nil, {"KA-3"}} {
		// Act
		_, err := seating.Select(m, mustRequest(t, desired, 2))

		// Assert
		assert.ErrorIs(t, err, seating.ErrNoSeatsAvailable)
	}
}

func TestSelect_EmptySeatMap(t *testing.T) {
	_, err := seating.Select(seating.SeatMap{}, mustRequest(t, nil, 1))

	assert.ErrorIs(t, err, seating.ErrNoSeatsAvailable)
}

func TestSelect_InvalidMaxSeats(t *testing.T) {
	_, err := seating.Select(seating.NewSeatMap(buildCoach("KA", 3, 1)), seating.SelectionRequest{MaxSeats: 0})

	assert.ErrorIs(t, err, seating.ErrInvalidMaxSeats)
}

func TestNewSelectionRequest(t *testing.T) {
	t.Run("rejects zero max seats", func(t *testing.T) {
		_, err := seating.NewSelectionRequest(nil, 0)
		assert.Error(t, err)
	})

	t.Run("trims and removes duplicates keeping order", func(t *testing.T) {
		req, err := seating.NewSelectionRequest([]string{" KA-5", "KA-2", "", "KA-5 "}, 2)

		require.NoError(t, err)
		assert.Equal(t, []string{"KA-5", "KA-2"}, req.DesiredSeatNumbers)
		assert.True(t, req.HasPreferences())
	})
}

func TestSelect_Preferences_ExactMatchWins(t *testing.T) {
	// Arrange
	m := seating.NewSeatMap(buildCoach("KA", 10, 1, 2, 3, 8))
	req := mustRequest(t, []string{"KA-8"}, 1)

	// Act
	result, err := seating.Select(m, req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"KA#8"}, result.TicketIDs())
}

func TestSelect_Preferences_DesiredSeatsPrecedeNeighbours(t *testing.T) {
	// Arrange
	m := seating.NewSeatMap(buildCoach("KA", 10, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10))
	req := mustRequest(t, []string{"KA-9", "KA-2"}, 3)

	// Act
	result, err := seating.Select(m, req)

	// Assert
	require.NoError(t, err)
	ids := result.TicketIDs()
	require.Len(t, ids, 3)
	// exact matches come in map order, then the forward neighbour of KA-9
	assert.Equal(t, []string{"KA#2", "KA#9", "KA#10"}, ids)
}

func TestSelect_Preferences_NearestNeighbourForwardFirst(t *testing.T) {
	// Arrange
	m := seating.NewSeatMap(buildCoach("KA", 10, 4, 5, 6, 7))
	req := mustRequest(t, []string{"KA-5"}, 2)

	// Act
	result, err := seating.Select(m, req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"KA-5", "KA-6"}, result.SeatNumbers())
}

func TestSelect_Preferences_NearestNeighbourBackwardWhenForwardExhausted(t *testing.T) {
	// Arrange
	m := seating.NewSeatMap(buildCoach("KA", 10, 4, 5, 6, 7))
	req := mustRequest(t, []string{"KA-7"}, 3)

	// Act
	result, err := seating.Select(m, req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"KA-7", "KA-6", "KA-5"}, result.SeatNumbers())
}

func TestSelect_Preferences_UnavailableDesiredFillsFromNeighboursThenArbitrary(t *testing.T) {
	// Arrange
	m := seating.NewSeatMap(buildCoach("KA", 6, 2), buildCoach("KHA", 6, 3))
	req := mustRequest(t, []string{"KA-5"}, 2)

	// Act
	result, err := seating.Select(m, req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"KA#2", "KHA#3"}, result.TicketIDs())
}

func TestSelect_Preferences_TakenDesiredSeatAnchorsNeighbourSearch(t *testing.T) {
	// Arrange: KA-5 is taken, KA-4 and KA-6 sit either side of it
	m := seating.NewSeatMap(buildCoach("KA", 10, 1, 4, 6))
	req := mustRequest(t, []string{"KA-5"}, 1)

	// Act
	result, err := seating.Select(m, req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"KA-6"}, result.SeatNumbers())
}

func TestSelect_Preferences_NeighbourOffsetCountsPhysicalSeats(t *testing.T) {
	// Arrange: KA-6 and KA-7 are taken, so KA-8 is three seats away and KA-4 one
	m := seating.NewSeatMap(buildCoach("KA", 10, 4, 5, 8))
	req := mustRequest(t, []string{"KA-5"}, 2)

	// Act
	result, err := seating.Select(m, req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"KA-5", "KA-4"}, result.SeatNumbers())
}

func TestSelect_Preferences_ShortResultIsNotAnError(t *testing.T) {
	// Arrange
	m := seating.NewSeatMap(buildCoach("KA", 10, 3, 9))
	req := mustRequest(t, []string{"KA-3"}, 4)

	// Act
	result, err := seating.Select(m, req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, result.Len())
	assert.True(t, result.Contains("KA#3"))
	assert.True(t, result.Contains("KA#9"))
}

func TestSelect_Preferences_SameSeatNumberInTwoCoaches(t *testing.T) {
	// Arrange: both coaches label their seats "1".."4"
	row := func(coach string) []seating.Seat {
		var seats []seating.Seat
		for n := 1; n <= 4; n++ {
			seats = append(seats, seating.Seat{
				Number:    fmt.Sprintf("%d", n),
				TicketID:  fmt.Sprintf("%s-%d", coach, n),
				Available: true,
			})
		}
		return seats
	}
	m := seating.NewSeatMap(
		seating.Coach{Name: "A", Rows: [][]seating.Seat{row("A")}},
		seating.Coach{Name: "B", Rows: [][]seating.Seat{row("B")}},
	)
	req := mustRequest(t, []string{"2"}, 2)

	// Act
	result, err := seating.Select(m, req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"A-2", "B-2"}, result.TicketIDs())
}

func TestSelect_Preferences_NoDuplicateTicketIDs(t *testing.T) {
	// Arrange: overlapping neighbourhoods of two desired seats
	m := seating.NewSeatMap(buildCoach("KA", 8, 1, 2, 3, 4, 5, 6, 7, 8))
	req := mustRequest(t, []string{"KA-3", "KA-4"}, 6)

	// Act
	result, err := seating.Select(m, req)

	// Assert
	require.NoError(t, err)
	ids := result.TicketIDs()
	seen := map[string]bool{}
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate ticket %s", id)
		seen[id] = true
	}
	assert.Len(t, ids, 6)
}

func TestSelect_MiddleBlock_ContiguousRun(t *testing.T) {
	// Arrange
	m := seating.NewSeatMap(buildCoach("KA", 10, 4, 5, 6, 7))
	req := mustRequest(t, nil, 4)

	// Act
	result, err := seating.Select(m, req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"KA#4", "KA#5", "KA#6", "KA#7"}, result.TicketIDs())
	assertSpan(t, result, 3)
}

func TestSelect_MiddleBlock_PrefersWindowClosestToMiddle(t *testing.T) {
	// Arrange
	m := seating.NewSeatMap(buildCoach("KA", 10, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10))
	req := mustRequest(t, nil, 2)

	// Act
	result, err := seating.Select(m, req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"KA-5", "KA-6"}, result.SeatNumbers())
}

func TestSelect_MiddleBlock_SkipsListAdjacentGaps(t *testing.T) {
	// Arrange: 3,5 are adjacent in the available list but not physically
	m := seating.NewSeatMap(buildCoach("KA", 12, 1, 3, 5, 8, 9, 10))
	req := mustRequest(t, nil, 3)

	// Act
	result, err := seating.Select(m, req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"KA-8", "KA-9", "KA-10"}, result.SeatNumbers())
	assertSpan(t, result, 2)
}

func TestSelect_MiddleBlock_SortsBySeatNumberNotLayoutOrder(t *testing.T) {
	// Arrange: layout lists seats in reverse order
	coach := buildCoach("KA", 6, 2, 3, 4)
	row := coach.Rows[0]
	for i, j := 0, len(row)-1; i < j; i, j = i+1, j-1 {
		row[i], row[j] = row[j], row[i]
	}
	m := seating.NewSeatMap(coach)

	// Act
	result, err := seating.Select(m, mustRequest(t, nil, 3))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"KA-2", "KA-3", "KA-4"}, result.SeatNumbers())
}

func TestSelect_MiddleBlock_SecondCoachBlock(t *testing.T) {
	// Arrange
	m := seating.NewSeatMap(buildCoach("KA", 6, 1, 3, 5), buildCoach("KHA", 6, 1, 2, 3))
	req := mustRequest(t, nil, 3)

	// Act
	result, err := seating.Select(m, req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"KHA#1", "KHA#2", "KHA#3"}, result.TicketIDs())
}

func TestSelect_MiddleBlock_SymmetricFallback(t *testing.T) {
	// Arrange: no two available seats are adjacent
	m := seating.NewSeatMap(buildCoach("KA", 10, 1, 3, 5, 7, 9))
	req := mustRequest(t, nil, 2)

	// Act
	result, err := seating.Select(m, req)

	// Assert: middle index 2 (seat 5), left first takes seat 3
	require.NoError(t, err)
	assert.Equal(t, []string{"KA-3", "KA-5"}, result.SeatNumbers())
}

func TestSelect_MiddleBlock_MultiCoachFallback(t *testing.T) {
	// Arrange
	m := seating.NewSeatMap(buildCoach("KA", 6, 5), buildCoach("KHA", 6, 1, 3))
	req := mustRequest(t, nil, 3)

	// Act
	result, err := seating.Select(m, req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"KA#5", "KHA#1", "KHA#3"}, result.TicketIDs())
}

func TestSelect_MiddleBlock_PartialResult(t *testing.T) {
	// Arrange
	m := seating.NewSeatMap(buildCoach("KA", 6, 2))
	req := mustRequest(t, nil, 4)

	// Act
	result, err := seating.Select(m, req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"KA#2"}, result.TicketIDs())
}

func TestSelect_IsDeterministic(t *testing.T) {
	m := seating.NewSeatMap(buildCoach("KA", 20, 2, 3, 7, 8, 9, 15), buildCoach("KHA", 20, 4, 5, 6))
	for _, desired := range [][]string{nil, {"KA-8"}} {
		first, err := seating.Select(m, mustRequest(t, desired, 3))
		require.NoError(t, err)
		for i := 0; i < 5; i++ {
			again, err := seating.Select(m, mustRequest(t, desired, 3))
			require.NoError(t, err)
			assert.Equal(t, first.TicketIDs(), again.TicketIDs())
		}
	}
}

func TestSelect_ResultOnlyContainsAvailableSeats(t *testing.T) {
	m := seating.NewSeatMap(buildCoach("KA", 10, 1, 4, 9), buildCoach("KHA", 8, 2, 7))
	for _, desired := range [][]string{nil, {"KA-2"}, {"KA-4", "KHA-7"}} {
		result, err := seating.Select(m, mustRequest(t, desired, 4))
		require.NoError(t, err)
		assert.LessOrEqual(t, result.Len(), 4)
		for _, id := range result.TicketIDs() {
			assert.True(t, seatIsAvailable(m, id), "ticket %s is not available", id)
		}
	}
}

func TestParseSeatPosition(t *testing.T) {
	tests := []struct {
		number string
		want   int
		ok     bool
	}{
		{"KA-12", 12, true},
		{"SHOVAN-CHAIR-7", 7, true},
		{"12", 12, true},
		{"A12", 12, true},
		{"KHA-", 0, false},
		{"", 0, false},
		{"GA-X", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			got, ok := seating.ParseSeatPosition(tt.number)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSeatMap_Counts(t *testing.T) {
	m := seating.NewSeatMap(buildCoach("KA", 10, 1, 2), buildCoach("KHA", 5, 5))

	assert.Equal(t, 3, m.AvailableCount())
	assert.Equal(t, 15, m.TotalCount())
	assert.False(t, m.IsEmpty())
	assert.True(t, seating.SeatMap{}.IsEmpty())
}

func assertSpan(t *testing.T, result seating.SelectionResult, span int) {
	t.Helper()
	lo, hi := -1, -1
	for _, n := range result.SeatNumbers() {
		p, ok := seating.ParseSeatPosition(n)
		require.True(t, ok)
		if lo == -1 || p < lo {
			lo = p
		}
		if hi == -1 || p > hi {
			hi = p
		}
	}
	assert.Equal(t, span, hi-lo)
}
