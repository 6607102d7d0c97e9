package service

import (
	"github.com/niksmo/qc-logbook/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SampleProducts is served when the spreadsheet is unreachable or empty.
func SampleProducts() []domain.Product {
	return []domain.Product{
		{ID: "P-1001", Name: "Hydraulic Pump HX-200", Category: "Hydraulics", Price: decimal.RequireFromString("1250.00")},
		{ID: "P-1002", Name: "Steel Mounting Bracket", Category: "Hardware", Price: decimal.RequireFromString("12.50")},
		{ID: "P-1003", Name: "Control Valve CV-15", Category: "Hydraulics", Price: decimal.RequireFromString("340.00")},
		{ID: "P-1004", Name: "Industrial Sensor Module", Category: "Electronics", Price: decimal.RequireFromString("89.90")},
		{ID: "P-1005", Name: "Rubber Gasket Set", Category: "Consumables", Price: decimal.RequireFromString("4.75")},
	}
}

func SampleInspectors() []domain.Inspector {
	return []domain.Inspector{
		{ID: "I-01", Name: "Dana Lee"},
		{ID: "I-02", Name: "Sam Ortiz"},
		{ID: "I-03", Name: "Kim Novak"},
	}
}
