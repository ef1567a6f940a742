package catalog

import (
	"errors"
	"testing"
)

func TestDefault_FilmAndRoom(t *testing.T) {
	c := Default()

	film, err := c.Film(1)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if film.Name != "Vingadores: Ultimato" {
		t.Fatalf("unexpected film name: %s", film.Name)
	}

	room, err := c.Room(1, 2)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if room.Name != "Sala 2" || len(room.Showtimes) != 3 {
		t.Fatalf("unexpected room: %+v", room)
	}
	if !HasShowtime(room, "18:30") || HasShowtime(room, "14:00") {
		t.Fatalf("unexpected showtimes: %+v", room.Showtimes)
	}
}

func TestDefault_NotFound(t *testing.T) {
	c := Default()

	if _, err := c.Film(99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := c.Room(99, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	// room 3 exists but screens film 2
	if _, err := c.Room(1, 3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign room, got %v", err)
	}
	if _, err := c.Rooms(42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDefault_FilmsOrdered(t *testing.T) {
	films := Default().Films()
	if len(films) != 6 {
		t.Fatalf("expected 6 films, got %d", len(films))
	}
	for i, film := range films {
		if film.ID != i+1 {
			t.Fatalf("expected film %d at position %d, got %d", i+1, i, film.ID)
		}
	}
}

func TestOccupiedSeats(t *testing.T) {
	c := Default()

	occupied := c.OccupiedSeats(1)
	if len(occupied) != 7 {
		t.Fatalf("expected 7 occupied seats, got %d", len(occupied))
	}
	if !occupied.Has(5) || occupied.Has(6) {
		t.Fatalf("unexpected occupied set: %+v", occupied)
	}
	if got := c.OccupiedSeats(404); len(got) != 0 {
		t.Fatalf("expected empty set for unknown room, got %+v", got)
	}
}
