package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"cine-booking-cli/booking"
	"cine-booking-cli/model"
)

// stdout is where tables and maps go; tests swap it.
var stdout io.Writer = os.Stdout

var filmsCmd = &cobra.Command{
	Use:   "filmes",
	Short: "List films in the catalog",
	Args:  cobra.NoArgs,
	RunE: withApp(func(_ context.Context, a *app, _ []string) error {
		t := newTable()
		t.AppendHeader(table.Row{"ID", "Filme", "Gêneros", "Duração"})
		for _, film := range a.catalog.Films() {
			t.AppendRow(table.Row{film.ID, film.Name, strings.Join(film.Genres, ", "), film.Runtime})
		}
		t.Render()
		return nil
	}),
}

var showtimesCmd = &cobra.Command{
	Use:   "sessoes <filme-id>",
	Short: "List rooms and showtimes of a film",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(_ context.Context, a *app, args []string) error {
		filmID, err := parseID(args[0], "filme")
		if err != nil {
			return err
		}
		film, err := a.catalog.Film(filmID)
		if err != nil {
			return err
		}
		rooms, err := a.catalog.Rooms(filmID)
		if err != nil {
			return err
		}

		rowConfigAutoMerge := table.RowConfig{AutoMerge: true}
		t := newTable()
		t.SetTitle(film.Name)
		t.AppendHeader(table.Row{"Sala", "Sala ID", "Horário", "Livres"}, rowConfigAutoMerge)
		t.SetColumnConfigs([]table.ColumnConfig{
			{Number: 1, AutoMerge: true},
			{Number: 2, AutoMerge: true},
		})
		for _, room := range rooms {
			free := room.Capacity() - len(a.catalog.OccupiedSeats(room.ID))
			for _, showtime := range room.Showtimes {
				t.AppendRow(table.Row{room.Name, room.ID, showtime, fmt.Sprintf("%d/%d", free, room.Capacity())}, rowConfigAutoMerge)
			}
			t.AppendSeparator()
		}
		t.Render()
		return nil
	}),
}

var seatsCmd = &cobra.Command{
	Use:   "poltronas <filme-id> <sala-id>",
	Short: "Show the seat map of a room",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(_ context.Context, a *app, args []string) error {
		filmID, err := parseID(args[0], "filme")
		if err != nil {
			return err
		}
		roomID, err := parseID(args[1], "sala")
		if err != nil {
			return err
		}
		room, err := a.catalog.Room(filmID, roomID)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s\n\n", room.Name)
		printSeatMap(stdout, booking.BuildGrid(a.catalog.OccupiedSeats(room.ID), nil))
		return nil
	}),
}

// printSeatMap draws the grid as plain text, screen on top.
func printSeatMap(w io.Writer, grid booking.Grid) {
	width := booking.SeatsPerRow*3 - 1
	fmt.Fprintf(w, "  %s\n", centered("TELA", width))
	for r, row := range grid.Rows {
		label := string(rune('A' + r))
		cells := make([]string, 0, len(row))
		for _, seat := range row {
			switch seat.State {
			case booking.Occupied:
				cells = append(cells, "XX")
			case booking.Selected:
				cells = append(cells, "**")
			default:
				cells = append(cells, "[]")
			}
		}
		fmt.Fprintf(w, "%s %s %s\n", label, strings.Join(cells, " "), label)
	}
	numbers := make([]string, 0, booking.SeatsPerRow)
	for n := 1; n <= booking.SeatsPerRow; n++ {
		numbers = append(numbers, fmt.Sprintf("%2d", n))
	}
	fmt.Fprintf(w, "  %s\n\n", strings.Join(numbers, " "))

	counts := grid.Counts()
	fmt.Fprintf(w, "[] livre • ** selecionada • XX ocupada\n")
	fmt.Fprintf(w, "Livres: %d • Ocupadas: %d • Selecionadas: %d • Total: %d\n",
		counts.Available, counts.Occupied, counts.Selected, counts.Total)
}

func centered(text string, width int) string {
	dashes := width - len(text) - 2
	if dashes < 2 {
		return text
	}
	left := dashes / 2
	return strings.Repeat("─", left) + " " + text + " " + strings.Repeat("─", dashes-left)
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(stdout)
	t.Style().Options.SeparateRows = false
	return t
}

func parseID(value string, name string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s inválido: %q", name, value)
	}
	return id, nil
}

func formatPrice(value float64) string {
	return "R$ " + strings.Replace(fmt.Sprintf("%.2f", value), ".", ",", 1)
}

func filmTitles(films []model.Film) map[string]int {
	byName := make(map[string]int, len(films))
	for _, film := range films {
		byName[film.Name] = film.ID
	}
	return byName
}
