package model

type Film struct {
	ID      int      `json:"id"`
	Name    string   `json:"nome"`
	Genres  []string `json:"generos"`
	Runtime string   `json:"duracao"`
}

type Showroom struct {
	ID        int      `json:"id"`
	Name      string   `json:"nome"`
	Showtimes []string `json:"horarios"`
}

// Capacity is the number of seats every showroom exposes.
func (Showroom) Capacity() int {
	return 80
}
