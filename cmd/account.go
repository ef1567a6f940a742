package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"cine-booking-cli/model"
	"cine-booking-cli/service"
)

var loginUser string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and keep the session for later commands",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
		username := loginUser
		if username == "" {
			var err error
			if username, err = promptText("Username ou email", required); err != nil {
				return err
			}
		}
		password, err := promptSecret("Senha", required)
		if err != nil {
			return err
		}

		res, err := a.client.Login(ctx, model.LoginRequest{Username: username, Password: password})
		if err != nil {
			return err
		}
		a.saveSession()
		fmt.Fprintln(stdout, res.Message)
		if a.slot.Pending() {
			fmt.Fprintln(stdout, "Há uma seleção pendente. Execute `comprar --retomar` para finalizar.")
		}
		return nil
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the saved session",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
		message, err := a.client.Logout(ctx)
		if err != nil && !service.IsUnauthorized(err) {
			return err
		}
		a.saveSession()
		if message == "" {
			message = "Logout realizado com sucesso"
		}
		fmt.Fprintln(stdout, message)
		return nil
	}),
}

var registerCmd = &cobra.Command{
	Use:   "cadastro",
	Short: "Create an account",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
		var req model.RegisterRequest
		var err error
		if req.Username, err = promptText("Username", required); err != nil {
			return err
		}
		if req.Email, err = promptText("Email", required); err != nil {
			return err
		}
		if req.NomeCompleto, err = promptText("Nome completo", required); err != nil {
			return err
		}
		phone, err := promptText("Telefone (opcional)", nil)
		if err != nil {
			return err
		}
		birth, err := promptText("Data de nascimento AAAA-MM-DD (opcional)", nil)
		if err != nil {
			return err
		}
		genres, err := promptText(fmt.Sprintf("Gêneros preferidos (%s)", strings.Join(model.Genres, ", ")), nil)
		if err != nil {
			return err
		}
		if req.Password, err = promptSecret("Senha", required); err != nil {
			return err
		}
		confirmPassword, err := promptSecret("Confirmar senha", required)
		if err != nil {
			return err
		}
		req.Telefone = service.Optional(phone)
		req.DataNascimento = service.Optional(birth)
		req.GenerosPreferidos = splitList(genres)

		res, err := a.client.Register(ctx, req, confirmPassword)
		if err != nil {
			return err
		}
		a.saveSession()
		fmt.Fprintln(stdout, res.Message)
		return nil
	}),
}

var profileEdit bool

var profileCmd = &cobra.Command{
	Use:   "perfil",
	Short: "Show or edit the logged in profile",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
		user, err := a.client.Profile(ctx)
		if err != nil {
			return err
		}
		if profileEdit {
			profile, err := promptProfile(model.ProfileOf(user))
			if err != nil {
				return err
			}
			res, err := a.client.UpdateProfile(ctx, profile)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, res.Message)
			if res.User != nil {
				user = *res.User
			}
		}
		printProfile(user)
		return nil
	}),
}

var passwordCmd = &cobra.Command{
	Use:   "senha",
	Short: "Change the account password",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
		current, err := promptSecret("Senha atual", required)
		if err != nil {
			return err
		}
		next, err := promptSecret("Nova senha", required)
		if err != nil {
			return err
		}
		confirmNext, err := promptSecret("Confirmar nova senha", required)
		if err != nil {
			return err
		}
		message, err := a.client.ChangePassword(ctx, current, next, confirmNext)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, message)
		return nil
	}),
}

func init() {
	loginCmd.Flags().StringVarP(&loginUser, "usuario", "u", "", "username or email")
	profileCmd.Flags().BoolVarP(&profileEdit, "editar", "e", false, "edit the profile interactively")
}

func promptProfile(profile model.Profile) (model.Profile, error) {
	var err error
	if profile.NomeCompleto, err = promptDefault("Nome completo", profile.NomeCompleto, required); err != nil {
		return profile, err
	}
	if profile.Email, err = promptDefault("Email", profile.Email, required); err != nil {
		return profile, err
	}
	phone, err := promptDefault("Telefone", deref(profile.Telefone), nil)
	if err != nil {
		return profile, err
	}
	birth, err := promptDefault("Data de nascimento AAAA-MM-DD", deref(profile.DataNascimento), nil)
	if err != nil {
		return profile, err
	}
	genres, err := promptDefault("Gêneros preferidos", strings.Join(profile.GenerosPreferidos, ", "), nil)
	if err != nil {
		return profile, err
	}
	profile.Telefone = service.Optional(phone)
	profile.DataNascimento = service.Optional(birth)
	profile.GenerosPreferidos = splitList(genres)
	return profile, nil
}

func printProfile(user model.User) {
	t := newTable()
	t.SetTitle("Meu perfil")
	t.AppendRows([]table.Row{
		{"Username", user.Username},
		{"Email", user.Email},
		{"Nome completo", user.NomeCompleto},
		{"Telefone", orDash(deref(user.Telefone))},
		{"Data de nascimento", orDash(deref(user.DataNascimento))},
		{"Gêneros preferidos", orDash(strings.Join(user.GenerosPreferidos, ", "))},
	})
	if !user.CreatedAt.IsZero() {
		t.AppendRow(table.Row{"Membro desde", user.CreatedAt.Format("02/01/2006")})
	}
	t.Render()
}

func required(input string) error {
	if strings.TrimSpace(input) == "" {
		return errors.New("campo obrigatório")
	}
	return nil
}

func promptText(label string, validate promptui.ValidateFunc) (string, error) {
	prompt := promptui.Prompt{Label: label, Validate: validate}
	return prompt.Run()
}

func promptDefault(label string, value string, validate promptui.ValidateFunc) (string, error) {
	prompt := promptui.Prompt{Label: label, Default: value, AllowEdit: true, Validate: validate}
	return prompt.Run()
}

func promptSecret(label string, validate promptui.ValidateFunc) (string, error) {
	prompt := promptui.Prompt{Label: label, Mask: '*', Validate: validate}
	return prompt.Run()
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

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
