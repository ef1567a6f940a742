package model

type User struct {
	ID                int       `json:"id"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	NomeCompleto      string    `json:"nome_completo"`
	Telefone          *string   `json:"telefone"`
	DataNascimento    *string   `json:"data_nascimento"`
	GenerosPreferidos []string  `json:"generos_preferidos"`
	CreatedAt         Timestamp `json:"created_at"`
	UpdatedAt         Timestamp `json:"updated_at"`
}

type AuthStatus struct {
	Authenticated bool  `json:"authenticated"`
	User          *User `json:"user,omitempty"`
}

// Profile is the editable subset of a user record.
type Profile struct {
	NomeCompleto      string   `json:"nome_completo" validate:"required,min=2"`
	Email             string   `json:"email" validate:"required,email"`
	Telefone          *string  `json:"telefone"`
	DataNascimento    *string  `json:"data_nascimento" validate:"omitempty,datetime=2006-01-02"`
	GenerosPreferidos []string `json:"generos_preferidos"`
}

func ProfileOf(user User) Profile {
	return Profile{
		NomeCompleto:      user.NomeCompleto,
		Email:             user.Email,
		Telefone:          user.Telefone,
		DataNascimento:    user.DataNascimento,
		GenerosPreferidos: user.GenerosPreferidos,
	}
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username          string   `json:"username" validate:"required,min=3"`
	Email             string   `json:"email" validate:"required,email"`
	Password          string   `json:"password" validate:"required,min=6"`
	NomeCompleto      string   `json:"nome_completo" validate:"required,min=2"`
	Telefone          *string  `json:"telefone"`
	DataNascimento    *string  `json:"data_nascimento" validate:"omitempty,datetime=2006-01-02"`
	GenerosPreferidos []string `json:"generos_preferidos"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// AccountResponse is the body of login, register and profile update replies.
type AccountResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Genres offered by the registration and profile forms.
var Genres = []string{
	"Ação",
	"Aventura",
	"Animação",
	"Comédia",
	"Drama",
	"Ficção Científica",
	"Romance",
	"Suspense",
	"Terror",
}
