package booking

import "cine-booking-cli/catalog"

type SeatState int

const (
	Available SeatState = iota
	Selected
	Occupied
)

func (s SeatState) String() string {
	switch s {
	case Selected:
		return "selected"
	case Occupied:
		return "occupied"
	default:
		return "available"
	}
}

type Seat struct {
	Label  string
	Row    int
	Number int
	Index  int
	State  SeatState
}

// Grid is the seat layout of a room, rows A..H in order.
type Grid struct {
	Rows [][]Seat
}

// BuildGrid derives the layout from the occupied set and the current
// selection only. An occupied seat stays occupied even if a stale selection
// names it.
func BuildGrid(occupied catalog.SeatSet, selected []string) Grid {
	chosen := make(map[string]bool, len(selected))
	for _, label := range selected {
		chosen[label] = true
	}

	rows := make([][]Seat, Rows)
	for r := 1; r <= Rows; r++ {
		row := make([]Seat, SeatsPerRow)
		for n := 1; n <= SeatsPerRow; n++ {
			seat := Seat{
				Label:  FormatLabel(r, n),
				Row:    r,
				Number: n,
				Index:  SeatIndex(r, n),
			}
			switch {
			case occupied.Has(seat.Index):
				seat.State = Occupied
			case chosen[seat.Label]:
				seat.State = Selected
			}
			row[n-1] = seat
		}
		rows[r-1] = row
	}
	return Grid{Rows: rows}
}

// At returns the seat at zero-based row and column.
func (g Grid) At(row int, col int) (Seat, bool) {
	if row < 0 || row >= len(g.Rows) || col < 0 || col >= len(g.Rows[row]) {
		return Seat{}, false
	}
	return g.Rows[row][col], true
}

type GridCounts struct {
	Available int
	Occupied  int
	Selected  int
	Total     int
}

func (g Grid) Counts() GridCounts {
	var c GridCounts
	for _, row := range g.Rows {
		for _, seat := range row {
			c.Total++
			switch seat.State {
			case Occupied:
				c.Occupied++
			case Selected:
				c.Selected++
			default:
				c.Available++
			}
		}
	}
	return c
}
