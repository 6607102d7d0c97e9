package domain

import "github.com/shopspring/decimal"

type (
	Product struct {
		ID       string
		Name     string
		Category string
		Price    decimal.Decimal
	}

	Inspector struct {
		ID   string
		Name string
	}
)
