package seating

import "sort"

// Select turns a seat map snapshot into an ordered selection.
//
// With desired seat numbers the preference policy runs: exact matches, then the nearest
// available seats around each desired seat's position in its row, then arbitrary fill.
// Without preferences the middle-block policy looks for a contiguous run of
// MaxSeats seats near the middle of a coach and degrades to a symmetric
// expansion and finally a coach-by-coach fill.
//
// A short selection is returned as-is; ErrNoSeatsAvailable is returned only when
// nothing at all could be selected.
func Select(seatMap SeatMap, req SelectionRequest) (SelectionResult, error) {
	if req.MaxSeats < 1 {
		return SelectionResult{}, ErrInvalidMaxSeats
	}

	var result SelectionResult
	if req.HasPreferences() {
		result = selectByPreference(seatMap, req)
	} else {
		result = selectMiddleBlock(seatMap, req.MaxSeats)
	}

	if result.IsEmpty() {
		return SelectionResult{}, ErrNoSeatsAvailable
	}
	return result, nil
}

func selectByPreference(seatMap SeatMap, req SelectionRequest) SelectionResult {
	b := newResultBuilder(req.MaxSeats)
	desired := make(map[string]struct{}, len(req.DesiredSeatNumbers))
	for _, d := range req.DesiredSeatNumbers {
		desired[d] = struct{}{}
	}

	// exact matches in map order
	for _, coach := range seatMap.Coaches {
		for _, row := range coach.Rows {
			for _, seat := range row {
				if _, ok := desired[seat.Number]; !ok {
					continue
				}
				if b.add(coach.Name, seat) && b.len() == req.MaxSeats {
					return b.build()
				}
			}
		}
	}

	// nearest neighbours by physical row position, forward then backward at each offset.
	// A taken desired seat still anchors the search.
	for _, coach := range seatMap.Coaches {
		for _, row := range coach.Rows {
			for _, d := range req.DesiredSeatNumbers {
				anchor := indexOfSeatNumber(row, d)
				if anchor < 0 {
					continue
				}
				for offset := 1; offset < len(row); offset++ {
					if fwd := anchor + offset; fwd < len(row) {
						if b.add(coach.Name, row[fwd]) && b.len() == req.MaxSeats {
							return b.build()
						}
					}
					if back := anchor - offset; back >= 0 {
						if b.add(coach.Name, row[back]) && b.len() == req.MaxSeats {
							return b.build()
						}
					}
				}
			}
		}
	}

	fillArbitrary(b, seatMap, req.MaxSeats)
	return b.build()
}

func indexOfSeatNumber(seats []Seat, number string) int {
	for i, s := range seats {
		if s.Number == number {
			return i
		}
	}
	return -1
}

// fillArbitrary takes any available, unchosen seats in map order until max is reached
func fillArbitrary(b *resultBuilder, seatMap SeatMap, max int) {
	for _, coach := range seatMap.Coaches {
		for _, row := range coach.Rows {
			for _, seat := range row {
				if b.len() >= max {
					return
				}
				b.add(coach.Name, seat)
			}
		}
	}
}

type coachSeats struct {
	name  string
	seats []Seat
}

func selectMiddleBlock(seatMap SeatMap, max int) SelectionResult {
	b := newResultBuilder(max)

	coaches := make([]coachSeats, 0, len(seatMap.Coaches))
	for _, coach := range seatMap.Coaches {
		seats := coach.AvailableSeats()
		if len(seats) == 0 {
			continue
		}
		sortByPosition(seats)
		coaches = append(coaches, coachSeats{name: coach.Name, seats: seats})
	}
	if len(coaches) == 0 {
		return b.build()
	}

	for _, c := range coaches {
		if block, ok := contiguousBlock(c.seats, max); ok {
			for _, seat := range block {
				b.add(c.name, seat)
			}
			return b.build()
		}
	}

	// symmetric expansion around the middle of the first coach, left first
	first := coaches[0]
	mid := len(first.seats) / 2
	left, right := mid-1, mid
	for b.len() < max && (left >= 0 || right < len(first.seats)) {
		if left >= 0 {
			b.add(first.name, first.seats[left])
			left--
		}
		if right < len(first.seats) && b.len() < max {
			b.add(first.name, first.seats[right])
			right++
		}
	}

	for _, c := range coaches {
		for _, seat := range c.seats {
			if b.len() >= max {
				return b.build()
			}
			b.add(c.name, seat)
		}
	}
	return b.build()
}

// sortByPosition orders seats by numeric suffix; unparsable numbers sort last in layout order
func sortByPosition(seats []Seat) {
	sort.SliceStable(seats, func(i, j int) bool {
		pi, oki := seats[i].Position()
		pj, okj := seats[j].Position()
		switch {
		case oki && okj:
			return pi < pj
		case oki:
			return true
		default:
			return false
		}
	})
}

// contiguousBlock scans windows of k sorted seats bracketing the middle index, closest
// to the middle first, and returns the first whose numeric span is exactly k-1.
func contiguousBlock(seats []Seat, k int) ([]Seat, bool) {
	n := len(seats)
	if k > n {
		return nil, false
	}
	mid := n / 2
	lo := mid - k
	if lo < 0 {
		lo = 0
	}
	hi := mid + 1
	if n-k+1 < hi {
		hi = n - k + 1
	}

	starts := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		starts = append(starts, i)
	}
	sort.SliceStable(starts, func(a, b int) bool {
		return distanceFromMiddle(starts[a], k, mid) < distanceFromMiddle(starts[b], k, mid)
	})

	for _, i := range starts {
		window := seats[i : i+k]
		if isContiguous(window) {
			return window, true
		}
	}
	return nil, false
}

// distanceFromMiddle is twice the distance between a window's centre and the middle index
func distanceFromMiddle(start, k, mid int) int {
	d := 2*start + k - 1 - 2*mid
	if d < 0 {
		return -d
	}
	return d
}

// isContiguous reports whether a sorted window has strictly consecutive numbers,
// which gives a numeric span of exactly len(window)-1
func isContiguous(window []Seat) bool {
	prev := 0
	for i, seat := range window {
		p, ok := seat.Position()
		if !ok {
			return false
		}
		if i > 0 && p != prev+1 {
			return false
		}
		prev = p
	}
	return true
}
