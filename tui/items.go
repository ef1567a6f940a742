package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"cine-booking-cli/booking"
	"cine-booking-cli/catalog"
	"cine-booking-cli/model"
	"cine-booking-cli/store"
)

type filmItem struct {
	film   model.Film
	recent bool
}

func (f filmItem) Title() string {
	return f.film.Name
}

func (f filmItem) Description() string {
	parts := []string{}
	if f.recent {
		parts = append(parts, "Recente")
	}
	if len(f.film.Genres) > 0 {
		parts = append(parts, strings.Join(f.film.Genres, ", "))
	}
	if f.film.Runtime != "" {
		parts = append(parts, f.film.Runtime)
	}
	return strings.Join(parts, " • ")
}

func (f filmItem) FilterValue() string {
	return strings.ToLower(strings.Join(append([]string{f.film.Name}, f.film.Genres...), " "))
}

type showtimeItem struct {
	room     model.Showroom
	showtime string
	free     int
}

func (s showtimeItem) Title() string {
	return fmt.Sprintf("%s • %s", s.showtime, s.room.Name)
}

func (s showtimeItem) Description() string {
	return fmt.Sprintf("%d/%d poltronas livres • %s por poltrona", s.free, s.room.Capacity(), formatPrice(booking.UnitPrice))
}

func (s showtimeItem) FilterValue() string {
	return strings.ToLower(s.room.Name + " " + s.showtime)
}

type purchaseItem struct {
	purchase model.Purchase
}

func (p purchaseItem) Title() string {
	return fmt.Sprintf("#%d %s", p.purchase.ID, p.purchase.FilmeNome)
}

func (p purchaseItem) Description() string {
	parts := []string{
		p.purchase.Status.Label(),
		fmt.Sprintf("%s %s", p.purchase.DataSessao, p.purchase.Horario),
		p.purchase.SalaNome,
	}
	if len(p.purchase.Poltronas) > 0 {
		parts = append(parts, strings.Join(p.purchase.Poltronas, ", "))
	}
	parts = append(parts, formatPrice(p.purchase.ValorTotal))
	return strings.Join(parts, " • ")
}

func (p purchaseItem) FilterValue() string {
	return strings.ToLower(p.purchase.FilmeNome)
}

// buildFilmItems lists recently chosen films first, then the rest in
// catalog order.
func buildFilmItems(films []model.Film, recents []store.RecentFilm) []list.Item {
	byID := make(map[int]model.Film, len(films))
	for _, film := range films {
		byID[film.ID] = film
	}

	items := make([]list.Item, 0, len(films))
	seen := map[int]bool{}
	for _, recent := range recents {
		film, ok := byID[recent.ID]
		if !ok || seen[film.ID] {
			continue
		}
		seen[film.ID] = true
		items = append(items, filmItem{film: film, recent: true})
	}
	for _, film := range films {
		if seen[film.ID] {
			continue
		}
		items = append(items, filmItem{film: film})
	}
	return items
}

func buildShowtimeItems(rooms []model.Showroom, lookup catalog.Lookup) []list.Item {
	var items []list.Item
	for _, room := range rooms {
		free := room.Capacity() - len(lookup.OccupiedSeats(room.ID))
		for _, showtime := range room.Showtimes {
			items = append(items, showtimeItem{room: room, showtime: showtime, free: free})
		}
	}
	return items
}

func buildPurchaseItems(purchases []model.Purchase) []list.Item {
	items := make([]list.Item, 0, len(purchases))
	for _, purchase := range purchases {
		items = append(items, purchaseItem{purchase: purchase})
	}
	return items
}

// formatPrice renders an amount in reais, e.g. "R$ 50,00".
func formatPrice(price float64) string {
	if price < 0 {
		return "-"
	}
	return "R$ " + strings.Replace(fmt.Sprintf("%.2f", price), ".", ",", 1)
}
