// Package booking holds the seat-selection state for one booking flow, the
// seat grid derived from it and the submitter that turns it into a purchase.
package booking

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"cine-booking-cli/catalog"
	"cine-booking-cli/service"
)

const (
	UnitPrice   = 25
	MaxSeats    = 6
	Rows        = 8
	SeatsPerRow = 10
)

// ErrSeatLimit is returned when a toggle would select a seventh seat.
var ErrSeatLimit = &service.ValidationError{
	Field:   "poltronas",
	Message: fmt.Sprintf("Máximo de %d poltronas por compra!", MaxSeats),
}

type Phase int

const (
	PhaseNone Phase = iota
	PhaseFilmChosen
	PhaseShowtimeChosen
	PhaseSeatsSelected
)

func (p Phase) String() string {
	switch p {
	case PhaseFilmChosen:
		return "film chosen"
	case PhaseShowtimeChosen:
		return "showtime chosen"
	case PhaseSeatsSelected:
		return "seats selected"
	default:
		return "no selection"
	}
}

// Session is the in-progress selection of one booking flow. The zero value
// is an empty session.
type Session struct {
	FilmID   int      `json:"film_id"`
	FilmName string   `json:"film_name"`
	RoomID   int      `json:"room_id"`
	RoomName string   `json:"room_name"`
	Showtime string   `json:"showtime"`
	Seats    []string `json:"seats"`
}

func (s *Session) SelectFilm(filmID int, filmName string) {
	*s = Session{FilmID: filmID, FilmName: filmName}
}

// SelectShowtime keeps any seats already chosen.
func (s *Session) SelectShowtime(roomID int, roomName string, showtime string) {
	s.RoomID = roomID
	s.RoomName = roomName
	s.Showtime = showtime
}

func (s *Session) Phase() Phase {
	switch {
	case s.FilmID == 0:
		return PhaseNone
	case s.RoomID == 0 || s.Showtime == "":
		return PhaseFilmChosen
	case len(s.Seats) == 0:
		return PhaseShowtimeChosen
	default:
		return PhaseSeatsSelected
	}
}

func (s *Session) Selected(label string) bool {
	return slices.Contains(s.Seats, label)
}

type Outcome int

const (
	Added Outcome = iota + 1
	Removed
	// Ignored means the seat is occupied; the selection did not change.
	Ignored
)

// ToggleResult is the selection after a toggle, for redrawing.
type ToggleResult struct {
	Label   string
	Outcome Outcome
	Seats   []string
	Summary Summary
}

// ToggleSeat removes label if selected, otherwise adds it while fewer than
// MaxSeats are held. Occupied seats are ignored without an error.
func (s *Session) ToggleSeat(label string, occupied catalog.SeatSet) (ToggleResult, error) {
	label, index, err := ParseLabel(label)
	if err != nil {
		return ToggleResult{}, err
	}

	outcome := Ignored
	switch {
	case occupied.Has(index):
	case s.Selected(label):
		s.Seats = slices.DeleteFunc(s.Seats, func(seat string) bool { return seat == label })
		outcome = Removed
	case len(s.Seats) >= MaxSeats:
		return s.result(label, Ignored), ErrSeatLimit
	default:
		s.Seats = append(s.Seats, label)
		outcome = Added
	}
	return s.result(label, outcome), nil
}

func (s *Session) result(label string, outcome Outcome) ToggleResult {
	return ToggleResult{
		Label:   label,
		Outcome: outcome,
		Seats:   slices.Clone(s.Seats),
		Summary: s.Summary(),
	}
}

// Summary is the price breakdown of a selection.
type Summary struct {
	Count     int
	UnitPrice int
	Total     int
}

// NoSelection is the summary of a session without seats.
var NoSelection = Summary{UnitPrice: UnitPrice}

func (s Summary) Empty() bool {
	return s.Count == 0
}

func (s *Session) Summary() Summary {
	if len(s.Seats) == 0 {
		return NoSelection
	}
	return Summary{
		Count:     len(s.Seats),
		UnitPrice: UnitPrice,
		Total:     len(s.Seats) * UnitPrice,
	}
}

// Clear drops everything, as after a confirmed purchase.
func (s *Session) Clear() {
	*s = Session{}
}

func (s *Session) Serialize() (string, error) {
	encoded, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("serialize session: %w", err)
	}
	return string(encoded), nil
}

// Restore decodes a blob written by Serialize and checks its seats.
func Restore(blob string) (*Session, error) {
	var s Session
	if err := json.Unmarshal([]byte(blob), &s); err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if s.FilmID <= 0 {
		return nil, fmt.Errorf("restore session: missing film")
	}
	if len(s.Seats) > MaxSeats {
		return nil, fmt.Errorf("restore session: %d seats exceeds limit of %d", len(s.Seats), MaxSeats)
	}
	seen := make(map[string]bool, len(s.Seats))
	for i, seat := range s.Seats {
		label, _, err := ParseLabel(seat)
		if err != nil {
			return nil, fmt.Errorf("restore session: %w", err)
		}
		if seen[label] {
			return nil, fmt.Errorf("restore session: seat %s selected twice", label)
		}
		seen[label] = true
		s.Seats[i] = label
	}
	if len(s.Seats) == 0 {
		s.Seats = nil
	}
	return &s, nil
}

// RestorePending consumes the slot. A second call finds it empty.
func RestorePending(slot Slot) (*Session, bool, error) {
	blob, ok, err := slot.Take()
	if err != nil || !ok {
		return nil, false, err
	}
	s, err := Restore(blob)
	if err != nil {
		return nil, false, err
	}
	return s, true, nil
}

// ParseLabel normalizes a seat label such as "c7" and returns its global
// index (1..80).
func ParseLabel(label string) (string, int, error) {
	label = strings.ToUpper(strings.TrimSpace(label))
	invalid := &service.ValidationError{Field: "poltrona", Message: fmt.Sprintf("Poltrona inválida: %q", label)}
	if len(label) < 2 {
		return "", 0, invalid
	}
	row := int(label[0]-'A') + 1
	if row < 1 || row > Rows {
		return "", 0, invalid
	}
	number, err := strconv.Atoi(label[1:])
	if err != nil || number < 1 || number > SeatsPerRow || label[1] == '0' {
		return "", 0, invalid
	}
	return FormatLabel(row, number), SeatIndex(row, number), nil
}

// FormatLabel renders row 3 seat 7 as "C7".
func FormatLabel(row int, number int) string {
	return string(rune('A'+row-1)) + strconv.Itoa(number)
}

func SeatIndex(row int, number int) int {
	return (row-1)*SeatsPerRow + number
}
