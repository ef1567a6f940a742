package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cine-booking-cli/booking"
	"cine-booking-cli/model"
	"cine-booking-cli/service"
)

type formField struct {
	label string
	input textinput.Model
}

type form struct {
	title  string
	fields []formField
	focus  int
	busy   bool
	err    string
}

func newField(label string, placeholder string, secret bool) formField {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = placeholder
	ti.CharLimit = 120
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return formField{label: label, input: ti}
}

func newForm(title string, fields ...formField) form {
	f := form{title: title, fields: fields}
	f.setFocus(0)
	return f
}

func (f *form) setFocus(index int) {
	if len(f.fields) == 0 {
		return
	}
	index = (index + len(f.fields)) % len(f.fields)
	for i := range f.fields {
		if i == index {
			f.fields[i].input.Focus()
		} else {
			f.fields[i].input.Blur()
		}
	}
	f.focus = index
}

func (f form) value(index int) string {
	if index < 0 || index >= len(f.fields) {
		return ""
	}
	return f.fields[index].input.Value()
}

func (f *form) setValue(index int, value string) {
	if index < 0 || index >= len(f.fields) {
		return
	}
	f.fields[index].input.SetValue(value)
}

func (f form) lastField() bool {
	return f.focus == len(f.fields)-1
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return cmd
}

func (f form) view(spinnerView string) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(f.title))
	b.WriteString("\n\n")
	labelStyle := lipgloss.NewStyle().Faint(true)
	focusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	for i, field := range f.fields {
		label := labelStyle.Render(field.label)
		if i == f.focus {
			label = focusStyle.Render(field.label)
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(field.input.View())
		b.WriteString("\n\n")
	}
	if f.err != "" {
		b.WriteString(errorStyle.Render(f.err))
		b.WriteString("\n")
	}
	if f.busy {
		b.WriteString(spinnerView + " Enviando...")
		b.WriteString("\n")
	}
	return b.String()
}

func (m *appModel) openLogin(returnState appState) {
	m.form = newForm("Entrar",
		newField("Username ou email", "maria", false),
		newField("Senha", "", true),
	)
	m.formReturn = returnState
	m.state = stateLogin
}

func (m *appModel) openRegister(returnState appState) {
	m.form = newForm("Criar conta",
		newField("Username", "mínimo 3 caracteres", false),
		newField("Email", "voce@exemplo.com", false),
		newField("Nome completo", "", false),
		newField("Telefone", "opcional", false),
		newField("Data de nascimento", "AAAA-MM-DD, opcional", false),
		newField("Gêneros preferidos", strings.Join(model.Genres[:3], ", "), false),
		newField("Senha", "mínimo 6 caracteres", true),
		newField("Confirmar senha", "", true),
	)
	m.formReturn = returnState
	m.state = stateRegister
}

func (m *appModel) openEditProfile() {
	m.form = newForm("Editar perfil",
		newField("Nome completo", "", false),
		newField("Email", "", false),
		newField("Telefone", "opcional", false),
		newField("Data de nascimento", "AAAA-MM-DD, opcional", false),
		newField("Gêneros preferidos", "separados por vírgula", false),
	)
	m.form.setValue(0, m.profile.NomeCompleto)
	m.form.setValue(1, m.profile.Email)
	m.form.setValue(2, deref(m.profile.Telefone))
	m.form.setValue(3, deref(m.profile.DataNascimento))
	m.form.setValue(4, strings.Join(m.profile.GenerosPreferidos, ", "))
	m.formReturn = stateProfile
	m.state = stateEditProfile
}

func (m *appModel) openPassword() {
	m.form = newForm("Alterar senha",
		newField("Senha atual", "", true),
		newField("Nova senha", "mínimo 6 caracteres", true),
		newField("Confirmar nova senha", "", true),
	)
	m.formReturn = stateProfile
	m.state = statePassword
}

func (m appModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.form.busy {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.form = form{}
		m.state = m.formReturn
		return m, nil
	case "ctrl+n":
		if m.state == stateLogin {
			m.openRegister(m.formReturn)
			return m, textinput.Blink
		}
	case "tab", "down":
		m.form.setFocus(m.form.focus + 1)
		return m, nil
	case "shift+tab", "up":
		m.form.setFocus(m.form.focus - 1)
		return m, nil
	case "enter":
		if !m.form.lastField() {
			m.form.setFocus(m.form.focus + 1)
			return m, nil
		}
		return m.submitForm()
	}

	cmd := m.form.update(msg)
	return m, cmd
}

// submitForm validates locally and only then starts the request.
func (m appModel) submitForm() (tea.Model, tea.Cmd) {
	m.form.err = ""
	var cmd tea.Cmd
	switch m.state {
	case stateLogin:
		req := model.LoginRequest{
			Username: strings.TrimSpace(m.form.value(0)),
			Password: m.form.value(1),
		}
		if err := service.ValidateLogin(req); err != nil {
			m.form.err = booking.UserMessage(err)
			return m, nil
		}
		cmd = m.loginCmd(req)
	case stateRegister:
		req := model.RegisterRequest{
			Username:          strings.TrimSpace(m.form.value(0)),
			Email:             strings.TrimSpace(m.form.value(1)),
			NomeCompleto:      strings.TrimSpace(m.form.value(2)),
			Telefone:          service.Optional(m.form.value(3)),
			DataNascimento:    service.Optional(m.form.value(4)),
			GenerosPreferidos: splitList(m.form.value(5)),
			Password:          m.form.value(6),
		}
		confirm := m.form.value(7)
		if err := service.ValidateRegistration(req, confirm); err != nil {
			m.form.err = booking.UserMessage(err)
			return m, nil
		}
		cmd = m.registerCmd(req, confirm)
	case stateEditProfile:
		profile := model.Profile{
			NomeCompleto:      strings.TrimSpace(m.form.value(0)),
			Email:             strings.TrimSpace(m.form.value(1)),
			Telefone:          service.Optional(m.form.value(2)),
			DataNascimento:    service.Optional(m.form.value(3)),
			GenerosPreferidos: splitList(m.form.value(4)),
		}
		if err := service.ValidateProfile(profile); err != nil {
			m.form.err = booking.UserMessage(err)
			return m, nil
		}
		cmd = m.saveProfileCmd(profile)
	case statePassword:
		current, next, confirm := m.form.value(0), m.form.value(1), m.form.value(2)
		if err := service.ValidatePasswordChange(current, next, confirm); err != nil {
			m.form.err = booking.UserMessage(err)
			return m, nil
		}
		cmd = m.changePasswordCmd(current, next, confirm)
	default:
		return m, nil
	}
	m.form.busy = true
	return m, tea.Batch(cmd, m.spinner.Tick)
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
