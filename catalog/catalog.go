// Package catalog holds the fixed film, showroom and occupied-seat tables the
// booking flow reads from.
package catalog

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/exp/maps"

	"cine-booking-cli/model"
)

var ErrNotFound = errors.New("catalog: not found")

// SeatSet is a set of global seat indices (1..80).
type SeatSet map[int]bool

func (s SeatSet) Has(index int) bool {
	return s[index]
}

// Lookup is the read-only catalog contract the booking core depends on.
type Lookup interface {
	Films() []model.Film
	Film(filmID int) (model.Film, error)
	Room(filmID int, roomID int) (model.Showroom, error)
	OccupiedSeats(roomID int) SeatSet
}

// Entry is one film together with the showrooms screening it.
type Entry struct {
	Film  model.Film
	Rooms []model.Showroom
}

// Static is an in-memory Lookup.
type Static struct {
	films    map[int]Entry
	occupied map[int][]int
}

func (c *Static) Films() []model.Film {
	ids := maps.Keys(c.films)
	sort.Ints(ids)
	films := make([]model.Film, 0, len(ids))
	for _, id := range ids {
		films = append(films, c.films[id].Film)
	}
	return films
}

func (c *Static) Film(filmID int) (model.Film, error) {
	e, ok := c.films[filmID]
	if !ok {
		return model.Film{}, fmt.Errorf("film %d: %w", filmID, ErrNotFound)
	}
	return e.Film, nil
}

// Rooms lists the showrooms screening a film, in catalog order.
func (c *Static) Rooms(filmID int) ([]model.Showroom, error) {
	e, ok := c.films[filmID]
	if !ok {
		return nil, fmt.Errorf("film %d: %w", filmID, ErrNotFound)
	}
	return append([]model.Showroom(nil), e.Rooms...), nil
}

func (c *Static) Room(filmID int, roomID int) (model.Showroom, error) {
	e, ok := c.films[filmID]
	if !ok {
		return model.Showroom{}, fmt.Errorf("film %d: %w", filmID, ErrNotFound)
	}
	for _, room := range e.Rooms {
		if room.ID == roomID {
			return room, nil
		}
	}
	return model.Showroom{}, fmt.Errorf("room %d of film %d: %w", roomID, filmID, ErrNotFound)
}

func (c *Static) OccupiedSeats(roomID int) SeatSet {
	set := SeatSet{}
	for _, index := range c.occupied[roomID] {
		set[index] = true
	}
	return set
}

func HasShowtime(room model.Showroom, showtime string) bool {
	for _, candidate := range room.Showtimes {
		if candidate == showtime {
			return true
		}
	}
	return false
}

// Default returns the demo catalog the booking site ships with.
func Default() *Static {
	films := []Entry{
		{
			Film: model.Film{ID: 1, Name: "Vingadores: Ultimato", Genres: []string{"Ação", "Aventura"}, Runtime: "181 min"},
			Rooms: []model.Showroom{
				{ID: 1, Name: "Sala 1", Showtimes: []string{"14:00", "17:00", "20:00"}},
				{ID: 2, Name: "Sala 2", Showtimes: []string{"15:30", "18:30", "21:30"}},
			},
		},
		{
			Film: model.Film{ID: 2, Name: "Coringa", Genres: []string{"Drama", "Crime"}, Runtime: "122 min"},
			Rooms: []model.Showroom{
				{ID: 3, Name: "Sala 3", Showtimes: []string{"16:00", "19:00", "22:00"}},
				{ID: 4, Name: "Sala 4", Showtimes: []string{"14:30", "17:30", "20:30"}},
			},
		},
		{
			Film:  model.Film{ID: 3, Name: "Parasita", Genres: []string{"Thriller", "Drama"}, Runtime: "132 min"},
			Rooms: []model.Showroom{{ID: 5, Name: "Sala 5", Showtimes: []string{"15:00", "18:00", "21:00"}}},
		},
		{
			Film:  model.Film{ID: 4, Name: "1917", Genres: []string{"Guerra", "Drama"}, Runtime: "119 min"},
			Rooms: []model.Showroom{{ID: 6, Name: "Sala 6", Showtimes: []string{"13:30", "16:30", "19:30"}}},
		},
		{
			Film:  model.Film{ID: 5, Name: "Toy Story 4", Genres: []string{"Animação", "Família"}, Runtime: "100 min"},
			Rooms: []model.Showroom{{ID: 7, Name: "Sala 7", Showtimes: []string{"14:00", "16:00", "18:00"}}},
		},
		{
			Film:  model.Film{ID: 6, Name: "Frozen 2", Genres: []string{"Animação", "Musical"}, Runtime: "103 min"},
			Rooms: []model.Showroom{{ID: 8, Name: "Sala 8", Showtimes: []string{"15:00", "17:00", "19:00"}}},
		},
	}

	occupied := map[int][]int{
		1: {5, 12, 18, 23, 31, 44, 52},
		2: {3, 15, 22, 28, 35, 41, 58},
		3: {7, 14, 19, 26, 33, 47, 55},
		4: {2, 11, 17, 24, 32, 43, 51},
		5: {6, 13, 20, 27, 34, 45, 53},
		6: {4, 16, 21, 25, 36, 42, 56},
		7: {8, 10, 16, 29, 37, 46, 54},
		8: {1, 9, 15, 30, 38, 48, 57},
	}

	return New(films, occupied)
}

func New(films []Entry, occupied map[int][]int) *Static {
	c := &Static{
		films:    make(map[int]Entry, len(films)),
		occupied: occupied,
	}
	for _, e := range films {
		c.films[e.Film.ID] = e
	}
	return c
}
