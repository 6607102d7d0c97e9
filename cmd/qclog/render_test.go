package main

import (
	"testing"

	"github.com/niksmo/qc-logbook/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProductsTable(t *testing.T) {
	out := productsTable([]domain.Product{
		{ID: "P-1", Name: "Bracket", Category: "Hardware", Price: decimal.RequireFromString("4.5")},
	})
	assert.Contains(t, out, "Bracket")
	assert.Contains(t, out, "4.50")
	assert.Contains(t, out, "Category")
}

func TestLogsTable(t *testing.T) {
	out := logsTable([]domain.InspectionLog{
		{ID: "L-1", ProductID: "P-1", ProductName: "Bracket", CheckDate: "2024-04-01", Status: domain.StatusFail},
		{ID: "L-2", ProductID: "P-2", ProductName: "Pump", CheckDate: "2024-04-02", Status: domain.StatusPass},
	})
	assert.Contains(t, out, "Bracket (P-1)")
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "2024-04-02")
}

func TestSettingsTable(t *testing.T) {
	out := settingsTable(domain.ConnectionSettings{SheetID: "sheet-1", GoogleAccessToken: "secret"})
	assert.Contains(t, out, "sheet-1")
	assert.NotContains(t, out, "secret")
	assert.Contains(t, out, "set (6 chars)")

	out = settingsTable(domain.ConnectionSettings{})
	assert.Contains(t, out, "not set")
}

func TestLookupProductName(t *testing.T) {
	ps := []domain.Product{{ID: "P-1", Name: "Bracket"}}
	assert.Equal(t, "Bracket", lookupProductName(ps, "P-1"))
	assert.Empty(t, lookupProductName(ps, "P-2"))
}
