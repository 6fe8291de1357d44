package entity

import "time"

// Category representa una categoría de artículos.
type Category struct {
	ID        string
	CompanyID string
	Name      string
	Code      string // código único por empresa
	Status    string // active, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
