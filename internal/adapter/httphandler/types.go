package httphandler

import (
	"errors"
	"strings"
	"time"

	"github.com/niksmo/qc-logbook/internal/core/domain"
)

var (
	errProductRequired = errors.New("productId is required")
	errInvalidDate     = errors.New("checkDate must be YYYY-MM-DD")
	errInvalidStatus   = errors.New("status must be PASS, FAIL or WARNING")
	errNotesRequired   = errors.New("notes is required")
)

type (
	Product struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Category string `json:"category"`
		Price    string `json:"price"`
	}

	Inspector struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	InspectionLog struct {
		ID              string `json:"id"`
		ProductID       string `json:"productId"`
		ProductName     string `json:"productName"`
		ShippingOrderNo string `json:"shippingOrderNo"`
		CheckDate       string `json:"checkDate"`
		Inspector       string `json:"inspector"`
		Notes           string `json:"notes"`
		Status          string `json:"status"`
		AIAnalysis      string `json:"aiAnalysis,omitempty"`
		CreatedAt       int64  `json:"createdAt"`
	}

	LogDraft struct {
		ProductID       string `json:"productId"`
		ProductName     string `json:"productName"`
		ShippingOrderNo string `json:"shippingOrderNo"`
		CheckDate       string `json:"checkDate"`
		Inspector       string `json:"inspector"`
		Notes           string `json:"notes"`
		Status          string `json:"status"`
		AIAnalysis      string `json:"aiAnalysis"`
	}

	// Settings never echoes the access token back.
	Settings struct {
		SheetID           string `json:"sheetId"`
		GoogleClientID    string `json:"googleClientId,omitempty"`
		GoogleAccessToken string `json:"googleAccessToken,omitempty"`
		HasToken          bool   `json:"hasToken"`
	}

	AnnotationRequest struct {
		Notes       string `json:"notes"`
		ProductName string `json:"productName"`
	}

	Annotation struct {
		SuggestedStatus string `json:"suggestedStatus"`
		Summary         string `json:"summary"`
		Category        string `json:"category"`
		Analysis        string `json:"analysis"`
	}
)

func productsFromDomain(ps []domain.Product) []Product {
	out := make([]Product, len(ps))
	for i, p := range ps {
		out[i] = Product{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
			Price:    p.Price.StringFixed(2),
		}
	}
	return out
}

func inspectorsFromDomain(is []domain.Inspector) []Inspector {
	out := make([]Inspector, len(is))
	for i, v := range is {
		out[i] = Inspector{ID: v.ID, Name: v.Name}
	}
	return out
}

func logFromDomain(l domain.InspectionLog) InspectionLog {
	return InspectionLog{
		ID:              l.ID,
		ProductID:       l.ProductID,
		ProductName:     l.ProductName,
		ShippingOrderNo: l.ShippingOrderNo,
		CheckDate:       l.CheckDate,
		Inspector:       l.Inspector,
		Notes:           l.Notes,
		Status:          string(l.Status),
		AIAnalysis:      l.AIAnalysis,
		CreatedAt:       l.CreatedAt,
	}
}

func logsFromDomain(ls []domain.InspectionLog) []InspectionLog {
	out := make([]InspectionLog, len(ls))
	for i, l := range ls {
		out[i] = logFromDomain(l)
	}
	return out
}

// toDomain validates the draft. An empty status means PASS.
func (d LogDraft) toDomain() (domain.InspectionDraft, error) {
	if strings.TrimSpace(d.ProductID) == "" {
		return domain.InspectionDraft{}, errProductRequired
	}
	if _, err := time.Parse(time.DateOnly, d.CheckDate); err != nil {
		return domain.InspectionDraft{}, errInvalidDate
	}

	status := domain.StatusPass
	if strings.TrimSpace(d.Status) != "" {
		p := domain.ParseStatus(d.Status)
		if !p.Recognized {
			return domain.InspectionDraft{}, errInvalidStatus
		}
		status = p.Status
	}

	return domain.InspectionDraft{
		ProductID:       d.ProductID,
		ProductName:     d.ProductName,
		ShippingOrderNo: d.ShippingOrderNo,
		CheckDate:       d.CheckDate,
		Inspector:       d.Inspector,
		Notes:           d.Notes,
		Status:          status,
		AIAnalysis:      d.AIAnalysis,
	}, nil
}

func settingsFromDomain(cs domain.ConnectionSettings) Settings {
	return Settings{
		SheetID:        cs.SheetID,
		GoogleClientID: cs.GoogleClientID,
		HasToken:       cs.HasToken(),
	}
}

func (s Settings) toDomain() domain.ConnectionSettings {
	return domain.ConnectionSettings{
		SheetID:           s.SheetID,
		GoogleClientID:    s.GoogleClientID,
		GoogleAccessToken: s.GoogleAccessToken,
	}
}

func annotationFromDomain(a domain.Annotation) Annotation {
	return Annotation{
		SuggestedStatus: string(a.SuggestedStatus),
		Summary:         a.Summary,
		Category:        a.Category,
		Analysis:        a.String(),
	}
}
