package tui

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cine-booking-cli/booking"
	"cine-booking-cli/catalog"
	"cine-booking-cli/config"
	"cine-booking-cli/logger"
	"cine-booking-cli/model"
	"cine-booking-cli/service"
	"cine-booking-cli/store"
)

type appState int

const (
	stateCheckingAuth appState = iota
	stateSelectFilm
	stateSelectShowtime
	stateSeatMap
	stateConfirm
	stateSubmitting
	stateConfirmed
	stateLogin
	stateRegister
	stateLoadingProfile
	stateProfile
	stateEditProfile
	statePassword
	stateLoadingPurchases
	statePurchases
	stateConfirmCancel
	stateError
)

// Deps are the collaborators the TUI drives.
type Deps struct {
	Client  *service.Client
	Catalog *catalog.Static
	Slot    booking.Slot
	Config  *config.Config
	Log     *logger.Logger
}

type appModel struct {
	client    *service.Client
	catalog   *catalog.Static
	slot      booking.Slot
	submitter *booking.Submitter
	cfg       *config.Config
	log       *logger.Logger

	state       appState
	lastState   appState
	err         error
	notice      string
	redirecting bool

	width  int
	height int

	user *model.User

	session         booking.Session
	occupied        catalog.SeatSet
	cursorRow       int
	cursorCol       int
	showSeatNumbers bool
	confirmation    booking.Confirmation

	filmList     list.Model
	showtimeList list.Model
	purchaseList list.Model

	purchasesOffline bool
	cancelTarget     model.Purchase
	profile          model.User

	form       form
	formReturn appState

	spinner spinner.Model
}

func New(deps Deps) tea.Model {
	if deps.Log == nil {
		deps.Log = logger.Discard()
	}
	if deps.Config == nil {
		deps.Config = &config.Config{
			RedirectDelay: config.DefaultRedirectDelay,
			HistoryTTL:    config.DefaultHistoryTTL,
		}
	}
	if deps.Catalog == nil {
		deps.Catalog = catalog.Default()
	}
	if deps.Slot == nil {
		deps.Slot = &booking.MemorySlot{}
	}

	m := appModel{
		client:    deps.Client,
		catalog:   deps.Catalog,
		slot:      deps.Slot,
		submitter: booking.NewSubmitter(deps.Client, deps.Client, deps.Catalog, deps.Slot, deps.Log),
		cfg:       deps.Config,
		log:       deps.Log.WithComponent("tui"),
		state:     stateCheckingAuth,
	}

	m.filmList = newList("Filmes em cartaz")
	m.showtimeList = newList("Sessões")
	m.purchaseList = newList("Minhas compras")
	m.purchaseList.SetFilteringEnabled(false)
	m.refreshFilmList()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	m.spinner = sp

	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.checkAuthCmd(), m.spinner.Tick)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case tea.KeyMsg:
		m.notice = ""
		if m.isFormState() {
			return m.updateForm(msg)
		}
		if m.handleFilterInput(msg) {
			return m, nil
		}
		m, cmd, handled := m.handleKey(msg)
		if handled {
			return m, cmd
		}
		// fallthrough to component update
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.isLoadingState() {
			return m, cmd
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		if msg.returnStateSet {
			m.lastState = msg.returnState
		} else {
			m.lastState = recoverStateFrom(m.state)
		}
		m.state = stateError
		if errors.Is(msg.err, catalog.ErrNotFound) {
			m.redirecting = true
			m.log.Warn("catalog lookup failed, redirecting", "error", msg.err)
			return m, redirectAfter(m.cfg.RedirectDelay)
		}
		return m, nil

	case redirectMsg:
		if m.redirecting {
			return m.backToFilms(), nil
		}
		return m, nil

	case authMsg:
		m.state = stateSelectFilm
		if msg.err != nil {
			m.notice = booking.UserMessage(msg.err)
			return m, nil
		}
		m.user = msg.status.User
		m.persistCookies()
		if m.user != nil {
			return m.restorePending()
		}
		return m, nil

	case accountMsg:
		m.form.busy = false
		if msg.err != nil {
			m.form.err = booking.UserMessage(msg.err)
			return m, nil
		}
		m.user = msg.res.User
		m.persistCookies()
		m.notice = msg.res.Message
		m.form = form{}
		m.state = stateSelectFilm
		return m.restorePending()

	case logoutMsg:
		if msg.err != nil {
			return m, errWithStateCmd(msg.err, stateSelectFilm)
		}
		if m.user != nil {
			_ = store.ClearPurchaseCache(m.user.Username)
		}
		m.user = nil
		m.persistCookies()
		m.notice = msg.message
		m.state = stateSelectFilm
		return m, nil

	case purchaseMsg:
		if m.state != stateSubmitting {
			return m, nil
		}
		if msg.err != nil {
			return m.handlePurchaseError(msg.err)
		}
		m.confirmation = msg.conf
		m.session.Clear()
		if m.user != nil {
			_ = store.ClearPurchaseCache(m.user.Username)
		}
		m.state = stateConfirmed
		return m, nil

	case profileMsg:
		if msg.err != nil {
			return m.handleAccountError(msg.err, stateSelectFilm)
		}
		m.profile = msg.user
		m.user = &msg.user
		m.state = stateProfile
		return m, nil

	case profileSavedMsg:
		m.form.busy = false
		if msg.err != nil {
			m.form.err = booking.UserMessage(msg.err)
			return m, nil
		}
		if msg.res.User != nil {
			m.profile = *msg.res.User
		}
		m.notice = msg.res.Message
		m.form = form{}
		m.state = stateProfile
		return m, nil

	case passwordMsg:
		m.form.busy = false
		if msg.err != nil {
			m.form.err = booking.UserMessage(msg.err)
			return m, nil
		}
		m.notice = msg.message
		m.form = form{}
		m.state = stateProfile
		return m, nil

	case purchasesMsg:
		if msg.err != nil {
			return m.handleAccountError(msg.err, stateSelectFilm)
		}
		m.purchasesOffline = msg.offline
		m.purchaseList.SetItems(buildPurchaseItems(msg.purchases))
		m.purchaseList.Select(0)
		m.state = statePurchases
		return m, nil

	case cancelMsg:
		if msg.err != nil {
			return m, errWithStateCmd(msg.err, statePurchases)
		}
		m.notice = msg.res.Message
		if m.user == nil {
			m.state = stateSelectFilm
			return m, nil
		}
		_ = store.ClearPurchaseCache(m.user.Username)
		m.state = stateLoadingPurchases
		return m, tea.Batch(m.fetchPurchasesCmd(m.user.Username), m.spinner.Tick)
	}

	var cmd tea.Cmd
	switch m.state {
	case stateSelectFilm:
		m.filmList, cmd = m.filmList.Update(msg)
	case stateSelectShowtime:
		m.showtimeList, cmd = m.showtimeList.Update(msg)
	case statePurchases:
		m.purchaseList, cmd = m.purchaseList.Update(msg)
	case stateLogin, stateRegister, stateEditProfile, statePassword:
		cmd = m.form.update(msg)
	}
	return m, cmd
}

func (m appModel) View() string {
	header := m.headerView()
	switch m.state {
	case stateCheckingAuth, stateLoadingProfile, stateLoadingPurchases, stateSubmitting:
		return header + "\n\n" + m.loadingView()
	case stateSelectFilm:
		return header + "\n\n" + m.filmList.View()
	case stateSelectShowtime:
		return header + "\n\n" + m.showtimeList.View()
	case stateSeatMap:
		return header + "\n\n" + m.renderSeatMap()
	case stateConfirm:
		return header + "\n\n" + m.confirmView()
	case stateConfirmed:
		return header + "\n\n" + m.confirmedView()
	case stateLogin, stateRegister, stateEditProfile, statePassword:
		return header + "\n\n" + m.form.view(m.spinner.View())
	case stateProfile:
		return header + "\n\n" + m.profileView()
	case statePurchases:
		view := m.purchaseList.View()
		if m.purchasesOffline {
			view = hint("Sem conexão: mostrando o último histórico salvo.") + "\n" + view
		}
		return header + "\n\n" + view
	case stateConfirmCancel:
		return header + "\n\n" + m.cancelView()
	case stateError:
		body := errorStyle.Render(booking.UserMessage(m.err))
		if m.redirecting {
			return header + "\n\n" + body + "\n\n" + hint("Voltando para a lista de filmes...")
		}
		return header + "\n\n" + body + "\n\n" + hint("Pressione esc para voltar ou ctrl+c para sair.")
	default:
		return header
	}
}

var (
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
)

func (m appModel) headerView() string {
	title := lipgloss.NewStyle().Bold(true).Render("Cine TUI")
	sub := []string{}
	if m.user != nil {
		sub = append(sub, fmt.Sprintf("Usuário: %s", m.user.Username))
	} else {
		sub = append(sub, "Não autenticado")
	}
	if m.session.FilmName != "" {
		sub = append(sub, fmt.Sprintf("Filme: %s", m.session.FilmName))
	}
	if m.state == stateSeatMap || m.state == stateConfirm || m.state == stateSubmitting {
		if m.session.RoomName != "" {
			sub = append(sub, fmt.Sprintf("Sala: %s", m.session.RoomName))
		}
		if m.session.Showtime != "" {
			sub = append(sub, fmt.Sprintf("Horário: %s", m.session.Showtime))
		}
		sub = append(sub, fmt.Sprintf("Poltronas: %d/%d", len(m.session.Seats), booking.MaxSeats))
	}
	meta := lipgloss.NewStyle().Faint(true).Render(strings.Join(sub, " • "))

	hints := "ctrl+c sair • esc voltar"
	switch m.state {
	case stateSelectFilm:
		hints = "ctrl+c sair • digite para filtrar • enter escolher • ctrl+b compras • ctrl+p perfil"
		if m.user != nil {
			hints += " • ctrl+x sair da conta"
		} else {
			hints += " • ctrl+l entrar • ctrl+n cadastrar"
		}
	case stateSelectShowtime:
		hints = "ctrl+c sair • esc voltar • digite para filtrar • enter escolher sessão"
	case stateSeatMap:
		hints = "ctrl+c sair • esc voltar • setas mover • espaço marcar • enter finalizar • n números"
	case stateConfirm:
		hints = "enter confirmar • esc voltar"
	case stateSubmitting:
		hints = "aguarde..."
	case stateConfirmed:
		hints = "enter ver compras • esc voltar aos filmes"
	case stateLogin:
		hints = "tab próximo campo • enter entrar • ctrl+n cadastrar • esc voltar"
	case stateRegister, stateEditProfile, statePassword:
		hints = "tab próximo campo • enter salvar • esc voltar"
	case stateProfile:
		hints = "e editar • s alterar senha • c compras • esc voltar"
	case statePurchases:
		hints = "c cancelar compra • r atualizar • esc voltar"
	case stateConfirmCancel:
		hints = "y confirmar cancelamento • n manter"
	}

	filterLine := ""
	if listPtr := m.activeList(); listPtr != nil {
		if filter := listPtr.FilterValue(); filter != "" {
			filterLine = "\n" + hint(fmt.Sprintf("Filtro: %s", filter))
		}
	}
	noticeLine := ""
	if m.notice != "" {
		noticeLine = "\n" + noticeStyle.Render(m.notice)
	}
	return title + "\n" + meta + filterLine + "\n" + hint(hints) + noticeLine
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if m.state == stateSubmitting {
		// a purchase is in flight; only quitting is allowed
		if msg.String() == "ctrl+c" {
			return m, tea.Quit, true
		}
		return m, nil, true
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit, true
	case "esc":
		if listPtr := m.activeList(); listPtr != nil {
			if listPtr.SettingFilter() || listPtr.IsFiltered() {
				listPtr.ResetFilter()
				return m, nil, true
			}
		}
		model, cmd := m.goBack()
		return model, cmd, true
	}

	switch m.state {
	case stateSelectFilm:
		return m.handleFilmKey(msg)
	case stateSelectShowtime:
		if msg.Type == tea.KeyEnter {
			return m.chooseShowtime()
		}
	case stateSeatMap:
		return m.handleSeatKey(msg)
	case stateConfirm:
		switch msg.String() {
		case "enter", "y":
			return m.submit()
		case "n":
			m.state = stateSeatMap
			return m, nil, true
		}
	case stateConfirmed:
		if msg.Type == tea.KeyEnter {
			return m.openPurchases()
		}
	case stateProfile:
		switch msg.String() {
		case "e":
			m.openEditProfile()
			return m, textinput.Blink, true
		case "s":
			m.openPassword()
			return m, textinput.Blink, true
		case "c":
			return m.openPurchases()
		}
	case statePurchases:
		return m.handlePurchaseKey(msg)
	case stateConfirmCancel:
		switch msg.String() {
		case "y", "enter":
			m.state = stateLoadingPurchases
			return m, tea.Batch(m.cancelPurchaseCmd(m.cancelTarget), m.spinner.Tick), true
		case "n":
			m.state = statePurchases
			return m, nil, true
		}
	}
	return m, nil, false
}

func (m appModel) handleFilmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+l":
		m.openLogin(stateSelectFilm)
		return m, textinput.Blink, true
	case "ctrl+n":
		m.openRegister(stateSelectFilm)
		return m, textinput.Blink, true
	case "ctrl+x":
		if m.user == nil {
			return m, nil, true
		}
		return m, m.logoutCmd(), true
	case "ctrl+p":
		if m.user == nil {
			m.notice = "Faça login para ver seu perfil."
			m.openLogin(stateSelectFilm)
			return m, textinput.Blink, true
		}
		m.state = stateLoadingProfile
		return m, tea.Batch(m.fetchProfileCmd(), m.spinner.Tick), true
	case "ctrl+b":
		return m.openPurchases()
	}
	if msg.Type != tea.KeyEnter {
		return m, nil, false
	}

	item, ok := m.filmList.SelectedItem().(filmItem)
	if !ok {
		return m, nil, true
	}
	rooms, err := m.catalog.Rooms(item.film.ID)
	if err != nil {
		return m, errCmd(err), true
	}
	m.session.SelectFilm(item.film.ID, item.film.Name)
	_ = store.RememberFilm(item.film)
	m.log.Debug("film chosen", "film_id", item.film.ID, "phase", m.session.Phase().String())

	m.showtimeList.Title = fmt.Sprintf("Sessões • %s", item.film.Name)
	m.showtimeList.ResetFilter()
	m.showtimeList.SetItems(buildShowtimeItems(rooms, m.catalog))
	m.showtimeList.Select(0)
	m.state = stateSelectShowtime
	return m, nil, true
}

func (m appModel) chooseShowtime() (tea.Model, tea.Cmd, bool) {
	item, ok := m.showtimeList.SelectedItem().(showtimeItem)
	if !ok {
		return m, nil, true
	}
	room, err := m.catalog.Room(m.session.FilmID, item.room.ID)
	if err != nil {
		return m, errCmd(err), true
	}
	m.session.SelectShowtime(room.ID, room.Name, item.showtime)
	m.occupied = m.catalog.OccupiedSeats(room.ID)
	m.cursorRow, m.cursorCol = 0, 0
	m.state = stateSeatMap
	return m, nil, true
}

func (m appModel) handleSeatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "up", "k":
		m.cursorRow = max(0, m.cursorRow-1)
	case "down", "j":
		m.cursorRow = min(booking.Rows-1, m.cursorRow+1)
	case "left", "h":
		m.cursorCol = max(0, m.cursorCol-1)
	case "right", "l":
		m.cursorCol = min(booking.SeatsPerRow-1, m.cursorCol+1)
	case " ", "x":
		m.toggleCursorSeat()
	case "n":
		m.showSeatNumbers = !m.showSeatNumbers
	case "enter":
		if m.session.Summary().Empty() {
			m.notice = booking.UserMessage(booking.ErrEmptySelection)
			return m, nil, true
		}
		m.state = stateConfirm
	default:
		return m, nil, false
	}
	return m, nil, true
}

func (m *appModel) toggleCursorSeat() {
	grid := booking.BuildGrid(m.occupied, m.session.Seats)
	seat, ok := grid.At(m.cursorRow, m.cursorCol)
	if !ok {
		return
	}
	res, err := m.session.ToggleSeat(seat.Label, m.occupied)
	if err != nil {
		m.notice = booking.UserMessage(err)
		return
	}
	if res.Outcome == booking.Ignored {
		m.notice = fmt.Sprintf("Poltrona %s ocupada.", seat.Label)
	}
}

func (m appModel) submit() (tea.Model, tea.Cmd, bool) {
	session := m.session
	session.Seats = slices.Clone(m.session.Seats)
	m.state = stateSubmitting
	return m, tea.Batch(m.submitCmd(session), m.spinner.Tick), true
}

func (m appModel) handlePurchaseError(err error) (tea.Model, tea.Cmd) {
	switch {
	case errors.Is(err, booking.ErrAuthenticationRequired):
		m.user = nil
		m.notice = booking.UserMessage(err)
		m.openLogin(stateSeatMap)
		return m, textinput.Blink
	case errors.Is(err, catalog.ErrNotFound):
		return m, errCmd(err)
	default:
		m.log.Warn("purchase failed", "error", err)
		return m, errWithStateCmd(err, stateConfirm)
	}
}

// handleAccountError sends an expired session to the login form.
func (m appModel) handleAccountError(err error, returnState appState) (tea.Model, tea.Cmd) {
	if service.IsUnauthorized(err) {
		m.user = nil
		m.persistCookies()
		m.notice = booking.UserMessage(err)
		m.openLogin(returnState)
		return m, textinput.Blink
	}
	return m, errWithStateCmd(err, returnState)
}

func (m appModel) handlePurchaseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "c":
		item, ok := m.purchaseList.SelectedItem().(purchaseItem)
		if !ok {
			return m, nil, true
		}
		if !item.purchase.Cancellable() {
			m.notice = service.UserMessage(service.ErrNotCancellable)
			return m, nil, true
		}
		m.cancelTarget = item.purchase
		m.state = stateConfirmCancel
		return m, nil, true
	case "r":
		if m.user == nil {
			return m, nil, true
		}
		_ = store.ClearPurchaseCache(m.user.Username)
		m.state = stateLoadingPurchases
		return m, tea.Batch(m.fetchPurchasesCmd(m.user.Username), m.spinner.Tick), true
	}
	return m, nil, false
}

func (m appModel) openPurchases() (tea.Model, tea.Cmd, bool) {
	if m.user == nil {
		m.notice = "Faça login para ver suas compras."
		m.openLogin(stateSelectFilm)
		return m, textinput.Blink, true
	}
	m.state = stateLoadingPurchases
	return m, tea.Batch(m.fetchPurchasesCmd(m.user.Username), m.spinner.Tick), true
}

// restorePending resumes a selection left behind by a login round-trip.
func (m appModel) restorePending() (tea.Model, tea.Cmd) {
	session, ok, err := booking.RestorePending(m.slot)
	if err != nil {
		m.log.Warn("discarding pending selection", "error", err)
		return m, nil
	}
	if !ok {
		return m, nil
	}
	return m.openRestored(session)
}

func (m appModel) openRestored(session *booking.Session) (tea.Model, tea.Cmd) {
	film, err := m.catalog.Film(session.FilmID)
	if err != nil {
		return m, errCmd(err)
	}
	room, err := m.catalog.Room(session.FilmID, session.RoomID)
	if err != nil {
		return m, errCmd(err)
	}
	if !catalog.HasShowtime(room, session.Showtime) {
		return m, errCmd(fmt.Errorf("showtime %q: %w", session.Showtime, catalog.ErrNotFound))
	}

	m.session = *session
	m.session.FilmName = film.Name
	m.session.RoomName = room.Name
	m.occupied = m.catalog.OccupiedSeats(room.ID)
	m.cursorRow, m.cursorCol = 0, 0
	m.log.Info("selection restored", "film_id", film.ID, "room_id", room.ID, "seats", len(session.Seats))

	if m.session.Summary().Empty() {
		m.state = stateSeatMap
		return m, nil
	}
	m.notice = "Seleção restaurada. Confirme a compra."
	m.state = stateConfirm
	return m, nil
}

func (m appModel) backToFilms() appModel {
	m.redirecting = false
	m.err = nil
	m.session.Clear()
	m.occupied = nil
	m.refreshFilmList()
	m.state = stateSelectFilm
	return m
}

func (m appModel) goBack() (tea.Model, tea.Cmd) {
	switch m.state {
	case stateSelectShowtime:
		m.session.Clear()
		m.state = stateSelectFilm
	case stateSeatMap:
		// leaving the room drops its seats
		m.session.SelectFilm(m.session.FilmID, m.session.FilmName)
		m.occupied = nil
		m.state = stateSelectShowtime
	case stateConfirm:
		m.state = stateSeatMap
	case stateConfirmed:
		return m.backToFilms(), nil
	case stateProfile, statePurchases:
		m.state = stateSelectFilm
	case stateConfirmCancel:
		m.state = statePurchases
	case stateError:
		if m.redirecting {
			return m.backToFilms(), nil
		}
		m.state = m.lastState
	default:
		return m, nil
	}
	return m, nil
}

func (m *appModel) handleFilterInput(msg tea.KeyMsg) bool {
	listPtr := m.activeList()
	if listPtr == nil {
		return false
	}
	if !listPtr.FilteringEnabled() {
		return false
	}
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return false
		}
		m.appendFilter(listPtr, string(msg.Runes))
		return true
	case tea.KeySpace:
		m.appendFilter(listPtr, " ")
		return true
	case tea.KeyBackspace, tea.KeyDelete:
		if listPtr.FilterValue() == "" {
			return false
		}
		m.popFilter(listPtr)
		return true
	default:
		return false
	}
}

func (m *appModel) appendFilter(listPtr *list.Model, value string) {
	if value == "" {
		return
	}
	current := listPtr.FilterValue()
	listPtr.SetFilterText(current + value)
}

func (m *appModel) popFilter(listPtr *list.Model) {
	value := listPtr.FilterValue()
	if value == "" {
		return
	}
	value = trimLastRune(value)
	if value == "" {
		listPtr.ResetFilter()
		return
	}
	listPtr.SetFilterText(value)
}

func trimLastRune(value string) string {
	runes := []rune(value)
	if len(runes) <= 1 {
		return ""
	}
	return string(runes[:len(runes)-1])
}

func (m *appModel) activeList() *list.Model {
	switch m.state {
	case stateSelectFilm:
		return &m.filmList
	case stateSelectShowtime:
		return &m.showtimeList
	case statePurchases:
		return &m.purchaseList
	default:
		return nil
	}
}

func (m appModel) isLoadingState() bool {
	return m.state == stateCheckingAuth ||
		m.state == stateLoadingProfile ||
		m.state == stateLoadingPurchases ||
		m.state == stateSubmitting ||
		(m.isFormState() && m.form.busy)
}

func (m appModel) isFormState() bool {
	return m.state == stateLogin ||
		m.state == stateRegister ||
		m.state == stateEditProfile ||
		m.state == statePassword
}

func (m appModel) loadingView() string {
	title := "Carregando"
	switch m.state {
	case stateCheckingAuth:
		title = "Verificando sessão"
	case stateLoadingProfile:
		title = "Carregando perfil"
	case stateLoadingPurchases:
		title = "Carregando compras"
	case stateSubmitting:
		title = "Processando compra..."
	}
	return fmt.Sprintf("%s %s\n\n%s", m.spinner.View(), title, hint("Aguardando o servidor..."))
}

func (m *appModel) resizeLists() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := m.height - 7
	if h < 6 {
		h = 6
	}
	m.filmList.SetSize(m.width, h)
	m.showtimeList.SetSize(m.width, h)
	m.purchaseList.SetSize(m.width, h)
}

func (m *appModel) refreshFilmList() {
	recents, _ := store.LoadRecentFilms()
	m.filmList.SetItems(buildFilmItems(m.catalog.Films(), recents))
}

func (m appModel) persistCookies() {
	if err := store.SaveCookies(m.client.BaseURL(), m.client.Cookies()); err != nil {
		m.log.Warn("saving session cookies failed", "error", err)
	}
}

func newList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = title
	l.Filter = caseInsensitiveFilter
	l.SetFilteringEnabled(true)
	l.SetShowFilter(true)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return l
}

func hint(text string) string {
	return lipgloss.NewStyle().Faint(true).Render(text)
}

func recoverStateFrom(state appState) appState {
	switch state {
	case stateCheckingAuth, stateLoadingProfile, stateError:
		return stateSelectFilm
	case stateLoadingPurchases:
		return statePurchases
	case stateSubmitting:
		return stateConfirm
	default:
		return state
	}
}

func caseInsensitiveFilter(term string, targets []string) []list.Rank {
	term = strings.ToLower(term)
	lower := make([]string, len(targets))
	for i, t := range targets {
		lower[i] = strings.ToLower(t)
	}
	return list.DefaultFilter(term, lower)
}

func redirectAfter(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return redirectMsg{}
	})
}
