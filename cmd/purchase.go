package cmd

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"

	"cine-booking-cli/booking"
	"cine-booking-cli/catalog"
	"cine-booking-cli/model"
)

var (
	buyFilmID   int
	buyRoomID   int
	buyShowtime string
	buySeats    string
	buyResume   bool
	buyYes      bool
)

var buyCmd = &cobra.Command{
	Use:   "comprar",
	Short: "Buy tickets for a showtime",
	Long: `Buy tickets for a showtime. Missing flags are asked interactively.
Without a login the selection is kept until the next "comprar --retomar".`,
	Args: cobra.NoArgs,
	RunE: withApp(runBuy),
}

func init() {
	buyCmd.Flags().IntVar(&buyFilmID, "filme", 0, "film id")
	buyCmd.Flags().IntVar(&buyRoomID, "sala", 0, "room id")
	buyCmd.Flags().StringVar(&buyShowtime, "horario", "", "showtime, e.g. 14:00")
	buyCmd.Flags().StringVar(&buySeats, "poltronas", "", "comma separated seats, e.g. A1,A2")
	buyCmd.Flags().BoolVar(&buyResume, "retomar", false, "resume the selection saved before login")
	buyCmd.Flags().BoolVarP(&buyYes, "sim", "y", false, "skip the confirmation prompt")
}

func runBuy(ctx context.Context, a *app, _ []string) error {
	var (
		session *booking.Session
		err     error
	)
	if buyResume {
		session, err = resumeSession(a)
	} else {
		session, err = buildSession(a)
	}
	if err != nil {
		return err
	}

	printSelection(session)
	if !buyYes && !confirm("Confirmar compra") {
		return errors.New("compra cancelada")
	}

	if _, err := a.client.CheckAuth(ctx); err != nil {
		return err
	}
	a.saveSession()

	conf, err := a.submitter().Submit(ctx, session)
	if errors.Is(err, booking.ErrAuthenticationRequired) {
		fmt.Fprintln(stdout, "Seleção guardada. Execute `login` e depois `comprar --retomar`.")
		return err
	}
	if err != nil {
		return err
	}

	message := conf.Message
	if message == "" {
		message = "Compra realizada com sucesso!"
	}
	fmt.Fprintln(stdout, message)
	t := newTable()
	t.AppendHeader(table.Row{"Compra", "Filme", "Sala", "Data", "Horário", "Poltronas", "Total"})
	t.AppendRow(table.Row{
		conf.Purchase.ID,
		conf.Request.FilmeNome,
		conf.Request.SalaNome,
		conf.Request.DataSessao,
		conf.Request.Horario,
		strings.Join(conf.Request.Poltronas, ", "),
		formatPrice(float64(conf.Request.ValorTotal)),
	})
	t.Render()
	return nil
}

// resumeSession takes the selection left by an earlier unauthenticated buy.
func resumeSession(a *app) (*booking.Session, error) {
	session, ok, err := booking.RestorePending(a.slot)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("nenhuma seleção pendente")
	}
	if err := resolveNames(a.catalog, session); err != nil {
		return nil, err
	}
	return session, nil
}

func buildSession(a *app) (*booking.Session, error) {
	filmID := buyFilmID
	if filmID == 0 {
		id, err := promptFilm(a.catalog.Films())
		if err != nil {
			return nil, err
		}
		filmID = id
	}
	film, err := a.catalog.Film(filmID)
	if err != nil {
		return nil, err
	}

	roomID, showtime := buyRoomID, buyShowtime
	if roomID == 0 || showtime == "" {
		rooms, err := a.catalog.Rooms(filmID)
		if err != nil {
			return nil, err
		}
		roomID, showtime, err = promptShowtime(rooms)
		if err != nil {
			return nil, err
		}
	}
	room, err := a.catalog.Room(filmID, roomID)
	if err != nil {
		return nil, err
	}
	if !catalog.HasShowtime(room, showtime) {
		return nil, fmt.Errorf("showtime %q: %w", showtime, catalog.ErrNotFound)
	}

	session := &booking.Session{}
	session.SelectFilm(film.ID, film.Name)
	session.SelectShowtime(room.ID, room.Name, showtime)

	occupied := a.catalog.OccupiedSeats(room.ID)
	seats := buySeats
	if strings.TrimSpace(seats) == "" {
		printSeatMap(stdout, booking.BuildGrid(occupied, nil))
		if seats, err = promptSeats(); err != nil {
			return nil, err
		}
	}
	labels, err := parseSeatList(seats)
	if err != nil {
		return nil, err
	}
	for _, label := range labels {
		res, err := session.ToggleSeat(label, occupied)
		if err != nil {
			return nil, err
		}
		if res.Outcome == booking.Ignored {
			return nil, fmt.Errorf("poltrona %s já está ocupada", label)
		}
	}
	return session, nil
}

func resolveNames(lookup catalog.Lookup, session *booking.Session) error {
	film, err := lookup.Film(session.FilmID)
	if err != nil {
		return err
	}
	room, err := lookup.Room(session.FilmID, session.RoomID)
	if err != nil {
		return err
	}
	session.FilmName = film.Name
	session.RoomName = room.Name
	return nil
}

// parseSeatList normalizes labels and drops repeats, keeping input order.
func parseSeatList(value string) ([]string, error) {
	var labels []string
	for _, part := range strings.Split(value, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		label, _, err := booking.ParseLabel(part)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(labels, label) {
			labels = append(labels, label)
		}
	}
	if len(labels) == 0 {
		return nil, booking.ErrEmptySelection
	}
	return labels, nil
}

func printSelection(session *booking.Session) {
	summary := session.Summary()
	t := newTable()
	t.AppendRows([]table.Row{
		{"Filme", session.FilmName},
		{"Sala", session.RoomName},
		{"Horário", session.Showtime},
		{"Poltronas", strings.Join(session.Seats, ", ")},
		{"Total", fmt.Sprintf("%d × %s = %s", summary.Count, formatPrice(float64(summary.UnitPrice)), formatPrice(float64(summary.Total)))},
	})
	t.Render()
}

func promptFilm(films []model.Film) (int, error) {
	byName := filmTitles(films)
	names := maps.Keys(byName)
	slices.Sort(names)

	selectFilm := promptui.Select{
		Label: "Escolha o filme",
		Items: names,
		Size:  10,
	}
	_, name, err := selectFilm.Run()
	if err != nil {
		return 0, err
	}
	id, ok := byName[name]
	if !ok {
		return 0, fmt.Errorf("filme %q: %w", name, catalog.ErrNotFound)
	}
	return id, nil
}

type showtimeChoice struct {
	roomID   int
	showtime string
}

func promptShowtime(rooms []model.Showroom) (int, string, error) {
	byLabel := make(map[string]showtimeChoice)
	for _, room := range rooms {
		for _, showtime := range room.Showtimes {
			byLabel[fmt.Sprintf("%s • %s", showtime, room.Name)] = showtimeChoice{roomID: room.ID, showtime: showtime}
		}
	}
	labels := maps.Keys(byLabel)
	slices.Sort(labels)

	selectShowtime := promptui.Select{
		Label: "Escolha a sessão",
		Items: labels,
		Size:  10,
	}
	_, label, err := selectShowtime.Run()
	if err != nil {
		return 0, "", err
	}
	choice, ok := byLabel[label]
	if !ok {
		return 0, "", fmt.Errorf("sessão %q: %w", label, catalog.ErrNotFound)
	}
	return choice.roomID, choice.showtime, nil
}

func promptSeats() (string, error) {
	prompt := promptui.Prompt{
		Label: fmt.Sprintf("Poltronas (até %d, ex: A1,A2)", booking.MaxSeats),
		Validate: func(input string) error {
			_, err := parseSeatList(input)
			return err
		},
	}
	return prompt.Run()
}

func confirm(label string) bool {
	prompt := promptui.Prompt{Label: label, IsConfirm: true}
	_, err := prompt.Run()
	return err == nil
}
