package model

type PurchaseStatus string

const (
	PurchaseActive    PurchaseStatus = "ativo"
	PurchaseUsed      PurchaseStatus = "usado"
	PurchaseCancelled PurchaseStatus = "cancelado"
)

func (s PurchaseStatus) Label() string {
	switch s {
	case PurchaseActive:
		return "Ativo"
	case PurchaseUsed:
		return "Usado"
	case PurchaseCancelled:
		return "Cancelado"
	default:
		return string(s)
	}
}

type Purchase struct {
	ID                  int            `json:"id"`
	FilmeNome           string         `json:"filme_nome"`
	SalaNome            string         `json:"sala_nome"`
	Horario             string         `json:"horario"`
	DataSessao          string         `json:"data_sessao"`
	QuantidadeIngressos int            `json:"quantidade_ingressos"`
	ValorTotal          float64        `json:"valor_total"`
	Poltronas           []string       `json:"poltronas"`
	Status              PurchaseStatus `json:"status"`
	CreatedAt           Timestamp      `json:"created_at"`
}

func (p Purchase) Cancellable() bool {
	return p.Status == PurchaseActive
}

type PurchaseRequest struct {
	FilmeID    int      `json:"filme_id"`
	FilmeNome  string   `json:"filme_nome"`
	SalaID     int      `json:"sala_id"`
	SalaNome   string   `json:"sala_nome"`
	Horario    string   `json:"horario"`
	DataSessao string   `json:"data_sessao"`
	Poltronas  []string `json:"poltronas"`
	ValorTotal int      `json:"valor_total"`
}

type PurchaseResponse struct {
	Message  string   `json:"message"`
	Purchase Purchase `json:"compra"`
}
