package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"cine-booking-cli/booking"
)

const cellWidth = 3

func (m appModel) renderSeatMap() string {
	grid := booking.BuildGrid(m.occupied, m.session.Seats)

	seatStyleAvailable := lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	seatStyleOccupied := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	seatStyleSelected := lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)

	gridWidth := booking.SeatsPerRow*(cellWidth+1) - 1
	screenStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("214"))
	screenBorderStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Background(lipgloss.Color("236"))
	screenBar := screenBarBlock(gridWidth, "TELA")

	var b strings.Builder
	indent := strings.Repeat(" ", 2)
	b.WriteString(indent)
	b.WriteString(screenBorderStyle.Render(screenBar.top))
	b.WriteString("\n")
	b.WriteString(indent)
	b.WriteString(screenStyle.Render(screenBar.mid))
	b.WriteString("\n")
	b.WriteString(indent)
	b.WriteString(screenBorderStyle.Render(screenBar.bot))
	b.WriteString("\n\n")

	for r, row := range grid.Rows {
		label := string(rune('A' + r))
		b.WriteString(label + " ")
		for c, seat := range row {
			text := seatToken(seat.State)
			if m.showSeatNumbers && seat.State != booking.Occupied {
				text = strconv.Itoa(seat.Number)
			}
			rendered := padCell(text, cellWidth)
			switch seat.State {
			case booking.Occupied:
				rendered = seatStyleOccupied.Render(rendered)
			case booking.Selected:
				rendered = seatStyleSelected.Render(rendered)
			default:
				rendered = seatStyleAvailable.Render(rendered)
			}
			if r == m.cursorRow && c == m.cursorCol {
				rendered = lipgloss.NewStyle().Reverse(true).Render(padCell(text, cellWidth))
			}
			b.WriteString(rendered)
			if c < len(row)-1 {
				b.WriteString(" ")
			}
		}
		b.WriteString(" " + label + "\n")
	}

	b.WriteString(indent)
	for n := 1; n <= booking.SeatsPerRow; n++ {
		b.WriteString(padCell(strconv.Itoa(n), cellWidth))
		if n < booking.SeatsPerRow {
			b.WriteString(" ")
		}
	}
	b.WriteString("\n\n")

	legend := "Legenda: [] livre • ** selecionada • XX ocupada"
	if m.showSeatNumbers {
		legend = "Legenda: a cor mostra o estado • números são as poltronas"
	}
	counts := grid.Counts()
	countLine := fmt.Sprintf("Livres: %d • Ocupadas: %d • Selecionadas: %d • Total: %d",
		counts.Available, counts.Occupied, counts.Selected, counts.Total)

	cursor := ""
	if seat, ok := grid.At(m.cursorRow, m.cursorCol); ok {
		cursor = fmt.Sprintf("Cursor: %s (%s)", seat.Label, seatStateLabel(seat.State))
	}

	return b.String() + hint(legend) + "\n" + hint(countLine) + "\n" + hint(cursor) + "\n\n" + m.summaryView()
}

func (m appModel) summaryView() string {
	summary := m.session.Summary()
	if summary.Empty() {
		return hint("Nenhuma poltrona selecionada.")
	}
	return fmt.Sprintf("Poltronas: %s\n%d × %s = %s",
		strings.Join(m.session.Seats, ", "),
		summary.Count,
		formatPrice(float64(summary.UnitPrice)),
		lipgloss.NewStyle().Bold(true).Render(formatPrice(float64(summary.Total))),
	)
}

func (m appModel) confirmView() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Confirmar compra"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Filme: %s\n", m.session.FilmName))
	b.WriteString(fmt.Sprintf("Sala: %s\n", m.session.RoomName))
	b.WriteString(fmt.Sprintf("Horário: %s\n\n", m.session.Showtime))
	b.WriteString(m.summaryView())
	b.WriteString("\n\n")
	if m.user == nil {
		b.WriteString(hint("Você será levado ao login; a seleção fica guardada."))
		b.WriteString("\n")
	}
	b.WriteString(hint("enter confirmar • n voltar às poltronas"))
	return b.String()
}

func (m appModel) confirmedView() string {
	purchase := m.confirmation.Purchase
	var b strings.Builder
	title := m.confirmation.Message
	if title == "" {
		title = "Compra realizada com sucesso!"
	}
	b.WriteString(noticeStyle.Render(title))
	b.WriteString("\n\n")
	if purchase.ID != 0 {
		b.WriteString(fmt.Sprintf("Compra #%d\n", purchase.ID))
	}
	req := m.confirmation.Request
	b.WriteString(fmt.Sprintf("Filme: %s\n", req.FilmeNome))
	b.WriteString(fmt.Sprintf("Sala: %s • %s • %s\n", req.SalaNome, req.DataSessao, req.Horario))
	b.WriteString(fmt.Sprintf("Poltronas: %s\n", strings.Join(req.Poltronas, ", ")))
	b.WriteString(fmt.Sprintf("Total: %s\n", formatPrice(float64(req.ValorTotal))))
	return b.String()
}

func (m appModel) profileView() string {
	p := m.profile
	rows := [][2]string{
		{"Username", p.Username},
		{"Email", p.Email},
		{"Nome completo", p.NomeCompleto},
		{"Telefone", orDash(deref(p.Telefone))},
		{"Data de nascimento", orDash(deref(p.DataNascimento))},
		{"Gêneros preferidos", orDash(strings.Join(p.GenerosPreferidos, ", "))},
	}
	if !p.CreatedAt.IsZero() {
		rows = append(rows, [2]string{"Membro desde", p.CreatedAt.Format("02/01/2006")})
	}
	labelStyle := lipgloss.NewStyle().Faint(true).Width(20)
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Meu perfil"))
	b.WriteString("\n\n")
	for _, row := range rows {
		b.WriteString(labelStyle.Render(row[0]))
		b.WriteString(row[1])
		b.WriteString("\n")
	}
	return b.String()
}

func (m appModel) cancelView() string {
	p := m.cancelTarget
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Cancelar compra?"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("#%d %s\n", p.ID, p.FilmeNome))
	b.WriteString(fmt.Sprintf("%s • %s %s\n", p.SalaNome, p.DataSessao, p.Horario))
	b.WriteString(fmt.Sprintf("Poltronas: %s\n", strings.Join(p.Poltronas, ", ")))
	b.WriteString(fmt.Sprintf("Valor: %s\n\n", formatPrice(p.ValorTotal)))
	b.WriteString(hint("y confirmar • n manter a compra"))
	return b.String()
}

func seatToken(state booking.SeatState) string {
	switch state {
	case booking.Occupied:
		return "XX"
	case booking.Selected:
		return "**"
	default:
		return "[]"
	}
}

func seatStateLabel(state booking.SeatState) string {
	switch state {
	case booking.Occupied:
		return "ocupada"
	case booking.Selected:
		return "selecionada"
	default:
		return "livre"
	}
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func padCell(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if text == "" {
		return strings.Repeat(" ", width)
	}
	if len(text) >= width {
		return text[:width]
	}
	padding := width - len(text)
	left := padding / 2
	right := padding - left
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", right)
}

type screenBlock struct {
	top string
	mid string
	bot string
}

func screenBarBlock(width int, label string) screenBlock {
	if width < len(label)+4 {
		width = len(label) + 4
	}
	if width < 10 {
		width = 10
	}

	border := "╭" + strings.Repeat("─", width-2) + "╮"
	bottom := "╰" + strings.Repeat("─", width-2) + "╯"

	labelText := " " + label + " "
	padding := width - len(labelText) - 2
	left := padding / 2
	right := padding - left
	mid := "│" + strings.Repeat(" ", left) + labelText + strings.Repeat(" ", right) + "│"
	return screenBlock{top: border, mid: mid, bot: bottom}
}
