// Package record converts between domain records and spreadsheet rows.
//
// Row layouts:
//
//	product:   [id, name, category, price]
//	inspector: [id, name]
//	log:       [id, checkDate, shippingOrderNo, productId, productName,
//	            inspector, status, notes, aiAnalysis]
package record

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/qc-logbook/internal/core/domain"
	"github.com/shopspring/decimal"
)

const (
	MissingID          = "N/A"
	MissingProductName = "Unknown Product"

	DateLayout = time.DateOnly
)

// Decoder turns rows into domain records. The zero value is ready to use.
type Decoder struct {
	Now   func() time.Time
	NewID func() string
}

func (d Decoder) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Decoder) newID() string {
	if d.NewID != nil {
		return d.NewID()
	}
	return uuid.NewString()
}

// Products maps catalog rows, dropping rows without an id.
func (d Decoder) Products(rows [][]string) []domain.Product {
	ps := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		p := domain.Product{
			ID:       fieldOr(row, 0, MissingID),
			Name:     fieldOr(row, 1, MissingProductName),
			Category: field(row, 2),
			Price:    ParsePrice(cell(row, 3)),
		}
		if p.ID == MissingID {
			continue
		}
		ps = append(ps, p)
	}
	return ps
}

// Inspectors maps roster rows, dropping rows without an id.
func (d Decoder) Inspectors(rows [][]string) []domain.Inspector {
	is := make([]domain.Inspector, 0, len(rows))
	for _, row := range rows {
		id := fieldOr(row, 0, MissingID)
		if id == MissingID {
			continue
		}
		is = append(is, domain.Inspector{ID: id, Name: fieldOr(row, 1, id)})
	}
	return is
}

func (d Decoder) Logs(rows [][]string) []domain.InspectionLog {
	ls := make([]domain.InspectionLog, 0, len(rows))
	for _, row := range rows {
		ls = append(ls, d.Log(row))
	}
	return ls
}

// Log maps a journal row. CreatedAt is derived from the check date, not
// from the moment the log was saved. Only the id, check date and status
// cells are trimmed; the other columns are kept as typed.
func (d Decoder) Log(row []string) domain.InspectionLog {
	id := field(row, 0)
	if id == "" {
		id = d.newID()
	}

	checkDate := field(row, 1)
	if checkDate == "" {
		checkDate = d.now().Format(DateLayout)
	}

	return domain.InspectionLog{
		ID:              id,
		CheckDate:       checkDate,
		ShippingOrderNo: cell(row, 2),
		ProductID:       cell(row, 3),
		ProductName:     cell(row, 4),
		Inspector:       cell(row, 5),
		Status:          domain.ParseStatus(field(row, 6)).OrDefault(),
		Notes:           cell(row, 7),
		AIAnalysis:      cell(row, 8),
		CreatedAt:       d.createdAt(checkDate),
	}
}

func (d Decoder) createdAt(checkDate string) int64 {
	t, err := time.Parse(DateLayout, checkDate)
	if err != nil {
		return d.now().UnixMilli()
	}
	return t.UnixMilli()
}

func ProductRow(p domain.Product) []string {
	return []string{p.ID, p.Name, p.Category, p.Price.String()}
}

func LogRow(l domain.InspectionLog) []string {
	return []string{
		l.ID,
		l.CheckDate,
		l.ShippingOrderNo,
		l.ProductID,
		l.ProductName,
		l.Inspector,
		string(l.Status),
		l.Notes,
		l.AIAnalysis,
	}
}

// ParsePrice reads a price such as "$1,299.50". Anything unparsable or
// negative reads as zero.
func ParsePrice(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.TrimLeftFunc(s, func(r rune) bool {
		return !(r >= '0' && r <= '9') && r != '.' && r != '-'
	})
	s = strings.ReplaceAll(s, ",", "")

	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || v.IsNegative() {
		return decimal.Zero
	}
	return v
}

// EscapeQuotes doubles every double quote, as delimited text expects.
func EscapeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `""`)
}

func QuoteField(s string) string {
	return `"` + EscapeQuotes(s) + `"`
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

// field is a trimmed cell, for keys and enumerations.
func field(row []string, i int) string {
	return strings.TrimSpace(cell(row, i))
}

func fieldOr(row []string, i int, fallback string) string {
	if v := field(row, i); v != "" {
		return v
	}
	return fallback
}
