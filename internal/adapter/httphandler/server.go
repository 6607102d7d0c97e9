package httphandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/niksmo/qc-logbook/internal/core/port"
)

type HTTPServer struct {
	httpServer *http.Server
}

// NewHTTPServer bounds every request by timeout, which must outlast the
// remote steps of a request so that the local fallback can answer.
func NewHTTPServer(addr string, handler http.Handler, timeout time.Duration) HTTPServer {
	handler = http.TimeoutHandler(handler, timeout, "unavailable")
	s := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
	return HTTPServer{s}
}

// NewMux registers the API and metrics routes behind the JSON and metrics
// middleware.
func NewMux(svc port.QCService) http.Handler {
	mux := http.NewServeMux()
	RegisterQC(mux, svc)
	RegisterMetrics(mux)
	return Metrics(AllowJSON(mux))
}

// Handler returns the timeout-wrapped root handler.
func (s HTTPServer) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s HTTPServer) Run(stopFn context.CancelFunc) {
	const op = "HTTPServer.Run"
	log := slog.With("op", op)

	defer stopFn()
	log.Info("listening", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return
		}
		log.Error("unexpected servers shutdown", "err", err)
	}
}

func (s HTTPServer) Close(ctx context.Context) {
	const op = "HTTPServer.Close"
	log := slog.With("op", op)

	log.Info("closing http server...")

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		log.Error("failed to shutdown gracefully", "err", err)
	}
	log.Info("http server is closed")
}
