package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageRef    string          `json:"imageRef,omitempty"`
	Active      bool            `json:"active"`
	Category    Category        `json:"category"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
