package domain

import "strings"

type Status string

const (
	StatusPass    Status = "PASS"
	StatusFail    Status = "FAIL"
	StatusWarning Status = "WARNING"
)

// StatusParse is the result of reading a status from untyped input.
//
// Recognized reports whether Raw named one of the known statuses.
type StatusParse struct {
	Status     Status
	Raw        string
	Recognized bool
}

// ParseStatus never fails: unknown input yields an unrecognized result
// that collapses to [StatusPass] via [StatusParse.OrDefault].
func ParseStatus(raw string) StatusParse {
	switch s := Status(strings.ToUpper(strings.TrimSpace(raw))); s {
	case StatusPass, StatusFail, StatusWarning:
		return StatusParse{Status: s, Raw: raw, Recognized: true}
	}
	return StatusParse{Raw: raw}
}

func (p StatusParse) OrDefault() Status {
	if p.Recognized {
		return p.Status
	}
	return StatusPass
}

type (
	// InspectionLog is created once at submission and never mutated.
	InspectionLog struct {
		ID              string
		ProductID       string
		ProductName     string
		ShippingOrderNo string
		CheckDate       string
		Inspector       string
		Notes           string
		Status          Status
		AIAnalysis      string
		CreatedAt       int64
	}

	// InspectionDraft holds the caller-supplied part of an InspectionLog.
	InspectionDraft struct {
		ProductID       string
		ProductName     string
		ShippingOrderNo string
		CheckDate       string
		Inspector       string
		Notes           string
		Status          Status
		AIAnalysis      string
	}
)

func (d InspectionDraft) ToLog(id string, createdAt int64) InspectionLog {
	return InspectionLog{
		ID:              id,
		ProductID:       d.ProductID,
		ProductName:     d.ProductName,
		ShippingOrderNo: d.ShippingOrderNo,
		CheckDate:       d.CheckDate,
		Inspector:       d.Inspector,
		Notes:           d.Notes,
		Status:          d.Status,
		AIAnalysis:      d.AIAnalysis,
		CreatedAt:       createdAt,
	}
}

// Annotation is an AI suggestion for an inspection. Only its rendered
// string is stored on the log.
type Annotation struct {
	SuggestedStatus Status
	Summary         string
	Category        string
}

func (a Annotation) String() string {
	if a.Category == "" {
		return a.Summary
	}
	return "[" + a.Category + "] " + a.Summary
}
