package main

import (
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/niksmo/qc-logbook/internal/core/domain"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Faint(true)

	statusStyles = map[domain.Status]lipgloss.Style{
		domain.StatusPass:    cellStyle.Foreground(lipgloss.Color("2")),
		domain.StatusFail:    cellStyle.Foreground(lipgloss.Color("1")).Bold(true),
		domain.StatusWarning: cellStyle.Foreground(lipgloss.Color("3")),
	}
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func productsTable(ps []domain.Product) string {
	t := newTable("ID", "Name", "Category", "Price")
	for _, p := range ps {
		t.Row(p.ID, p.Name, p.Category, p.Price.StringFixed(2))
	}
	return t.String()
}

func inspectorsTable(is []domain.Inspector) string {
	t := newTable("ID", "Name")
	for _, i := range is {
		t.Row(i.ID, i.Name)
	}
	return t.String()
}

const statusCol = 4

func logsTable(ls []domain.InspectionLog) string {
	t := newTable("Date", "Product", "Order", "Inspector", "Status", "Notes", "AI Analysis", "Created")
	for _, l := range ls {
		t.Row(
			l.CheckDate,
			l.ProductName+" ("+l.ProductID+")",
			l.ShippingOrderNo,
			l.Inspector,
			string(l.Status),
			l.Notes,
			l.AIAnalysis,
			time.UnixMilli(l.CreatedAt).Format(time.DateTime),
		)
	}
	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		if col == statusCol && row >= 0 && row < len(ls) {
			if s, ok := statusStyles[ls[row].Status]; ok {
				return s
			}
		}
		return cellStyle
	})
	return t.String()
}

func settingsTable(cs domain.ConnectionSettings) string {
	token := "not set"
	if cs.HasToken() {
		token = "set (" + strconv.Itoa(len(cs.GoogleAccessToken)) + " chars)"
	}
	return newTable("Setting", "Value").
		Row("Sheet ID", cs.SheetID).
		Row("Google Client ID", cs.GoogleClientID).
		Row("Access Token", token).
		String()
}

func annotationTable(a domain.Annotation) string {
	return newTable("Suggested Status", "Category", "Summary").
		Row(string(a.SuggestedStatus), a.Category, a.Summary).
		String()
}
