package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"cine-booking-cli/model"
)

const minPasswordLength = 6

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func ValidateLogin(req model.LoginRequest) error {
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return &ValidationError{Field: "username", Message: "Username e senha são obrigatórios"}
	}
	return nil
}

// ValidateRegistration mirrors the server rules so bad forms never leave the client.
func ValidateRegistration(req model.RegisterRequest, confirmPassword string) error {
	if req.Password != confirmPassword {
		return &ValidationError{Field: "confirm_password", Message: "As senhas não coincidem."}
	}
	return structError(validate.Struct(req))
}

func ValidateProfile(profile model.Profile) error {
	return structError(validate.Struct(profile))
}

func ValidatePasswordChange(current string, next string, confirm string) error {
	if next != confirm {
		return &ValidationError{Field: "confirm_new_password", Message: "As senhas não coincidem."}
	}
	if len([]rune(next)) < minPasswordLength {
		return &ValidationError{Field: "new_password", Message: "A nova senha deve ter pelo menos 6 caracteres."}
	}
	return structError(validate.Struct(model.ChangePasswordRequest{CurrentPassword: current, NewPassword: next}))
}

// Optional turns a blank form value into an absent JSON field.
func Optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func structError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	first := fieldErrs[0]
	return &ValidationError{Field: first.Field(), Message: fieldMessage(first.Field(), first.Tag())}
}

func fieldMessage(field string, tag string) string {
	switch field {
	case "username":
		if tag == "required" {
			return "Username e senha são obrigatórios"
		}
		return "Nome de usuário deve ter pelo menos 3 caracteres"
	case "email":
		return "Email inválido"
	case "password":
		return "Senha deve ter pelo menos 6 caracteres"
	case "new_password":
		return "Nova senha deve ter pelo menos 6 caracteres"
	case "current_password":
		return "Senha atual e nova senha são obrigatórias"
	case "nome_completo":
		return "Nome completo é obrigatório"
	case "data_nascimento":
		return "Data de nascimento inválida (use YYYY-MM-DD)"
	default:
		return fmt.Sprintf("Campo %s é obrigatório", field)
	}
}
