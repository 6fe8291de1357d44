package entity

import "time"

// Company representa una organización/tenant del sistema. Todos los artículos,
// categorías y transacciones pertenecen a una empresa.
type Company struct {
	ID        string
	Name      string
	TaxID     string // NIT o identificación tributaria
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
