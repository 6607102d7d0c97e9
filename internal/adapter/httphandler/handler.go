package httphandler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/niksmo/qc-logbook/internal/adapter/export"
	"github.com/niksmo/qc-logbook/internal/core/port"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// GET    v1/products              (200 OK)
// GET    v1/inspectors            (200 OK)
// GET    v1/logs                  (200 OK)
// POST   v1/logs JSON             (201 Created, 400 Bad request, 500 on local cache failure)
// DELETE v1/logs                  (204 No content)
// GET    v1/logs/export?format=   (200 OK, 400 Bad request)
// GET    v1/settings              (200 OK)
// PUT    v1/settings JSON         (204 No content, 400 Bad request)
// POST   v1/annotations JSON      (200 OK, 204 No content when unavailable)

type QCHandler struct {
	svc port.QCService
}

func RegisterQC(mux *http.ServeMux, svc port.QCService) {
	h := QCHandler{svc}
	mux.HandleFunc("GET /v1/products", h.GetProducts)
	mux.HandleFunc("GET /v1/inspectors", h.GetInspectors)
	mux.HandleFunc("GET /v1/logs", h.GetLogs)
	mux.HandleFunc("POST /v1/logs", h.PostLog)
	mux.HandleFunc("DELETE /v1/logs", h.DeleteLogs)
	mux.HandleFunc("GET /v1/logs/export", h.ExportLogs)
	mux.HandleFunc("GET /v1/settings", h.GetSettings)
	mux.HandleFunc("PUT /v1/settings", h.PutSettings)
	mux.HandleFunc("POST /v1/annotations", h.PostAnnotation)
}

func RegisterMetrics(mux *http.ServeMux) {
	mux.Handle("GET /metrics", promhttp.Handler())
}

func (h QCHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "QCHandler.GetProducts"
	writeJSON(w, op, http.StatusOK, productsFromDomain(h.svc.Products(r.Context())))
}

func (h QCHandler) GetInspectors(w http.ResponseWriter, r *http.Request) {
	const op = "QCHandler.GetInspectors"
	writeJSON(w, op, http.StatusOK, inspectorsFromDomain(h.svc.Inspectors(r.Context())))
}

func (h QCHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	const op = "QCHandler.GetLogs"
	writeJSON(w, op, http.StatusOK, logsFromDomain(h.svc.Logs(r.Context())))
}

func (h QCHandler) PostLog(w http.ResponseWriter, r *http.Request) {
	const op = "QCHandler.PostLog"
	log := slog.With("op", op)

	var d LogDraft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	draft, err := d.toDomain()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	l, err := h.svc.SaveQCLog(r.Context(), draft)
	if err != nil {
		http.Error(w, "failed to save log", http.StatusInternalServerError)
		log.Error("failed to save log", "err", err)
		return
	}

	writeJSON(w, op, http.StatusCreated, logFromDomain(l))
}

func (h QCHandler) DeleteLogs(w http.ResponseWriter, r *http.Request) {
	const op = "QCHandler.DeleteLogs"
	log := slog.With("op", op)

	if err := h.svc.ClearLocalLogs(r.Context()); err != nil {
		http.Error(w, "failed to clear local logs", http.StatusInternalServerError)
		log.Error("failed to clear local logs", "err", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	log.Info("local logs cleared")
}

func (h QCHandler) ExportLogs(w http.ResponseWriter, r *http.Request) {
	const op = "QCHandler.ExportLogs"
	log := slog.With("op", op)

	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = export.FormatCSV
	}
	if format != export.FormatCSV && format != export.FormatXLSX {
		http.Error(w, "format must be csv or xlsx", http.StatusBadRequest)
		return
	}

	// Rendered into a buffer so a failure can still produce a 500.
	var buf bytes.Buffer
	if err := export.Write(&buf, format, h.svc.Logs(r.Context())); err != nil {
		http.Error(w, "failed to export logs", http.StatusInternalServerError)
		log.Error("failed to export logs", "err", err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set(
		"Content-Disposition", `attachment; filename="qc_logs.`+format+`"`,
	)
	if _, err := buf.WriteTo(w); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func (h QCHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	const op = "QCHandler.GetSettings"
	log := slog.With("op", op)

	cs, err := h.svc.Settings(r.Context())
	if err != nil {
		http.Error(w, "failed to load settings", http.StatusInternalServerError)
		log.Error("failed to load settings", "err", err)
		return
	}
	writeJSON(w, op, http.StatusOK, settingsFromDomain(cs))
}

func (h QCHandler) PutSettings(w http.ResponseWriter, r *http.Request) {
	const op = "QCHandler.PutSettings"
	log := slog.With("op", op)

	var s Settings
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	if err := h.svc.SaveSettings(r.Context(), s.toDomain()); err != nil {
		http.Error(w, "failed to save settings", http.StatusInternalServerError)
		log.Error("failed to save settings", "err", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	log.Info("settings saved", "hasToken", s.GoogleAccessToken != "")
}

func (h QCHandler) PostAnnotation(w http.ResponseWriter, r *http.Request) {
	const op = "QCHandler.PostAnnotation"
	log := slog.With("op", op)

	var req AnnotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}
	if strings.TrimSpace(req.Notes) == "" {
		http.Error(w, errNotesRequired.Error(), http.StatusBadRequest)
		return
	}

	a, ok := h.svc.Annotate(r.Context(), req.Notes, req.ProductName)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, op, http.StatusOK, annotationFromDomain(a))
}

func writeJSON(w http.ResponseWriter, op string, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response body", "op", op, "err", err)
	}
}
