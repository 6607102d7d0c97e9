package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/qc-logbook/internal/core/domain"
	"github.com/niksmo/qc-logbook/internal/core/port"
)

var _ port.QCService = (*Service)(nil)

var ErrNoAnnotator = errors.New("annotator is not configured")

// DefaultRemoteTimeout bounds each spreadsheet, journal or model call.
const DefaultRemoteTimeout = 10 * time.Second

type Opt func(*Service)

func WithJournalPublisher(p port.JournalPublisher) Opt {
	return func(s *Service) { s.publisher = p }
}

func WithAnnotator(a port.Annotator) Opt {
	return func(s *Service) { s.annotator = a }
}

// WithRemoteTimeout bounds every remote step separately. A read makes one
// step, a save at most two (spreadsheet append and journal publish).
func WithRemoteTimeout(d time.Duration) Opt {
	return func(s *Service) {
		if d > 0 {
			s.remoteTimeout = d
		}
	}
}

// WithClock replaces time.Now and the log id generator.
func WithClock(now func() time.Time, newID func() string) Opt {
	return func(s *Service) {
		s.now = now
		s.newID = newID
	}
}

// Service decides per call whether the spreadsheet or the local cache
// answers. Reads fall back silently; saves always land in the local cache
// first and reach the spreadsheet best-effort.
type Service struct {
	settings  port.SettingsRepository
	cache     port.LogCache
	remotes   port.RemoteStoreFactory
	publisher port.JournalPublisher
	annotator port.Annotator

	now           func() time.Time
	newID         func() string
	remoteTimeout time.Duration

	mu     sync.Mutex
	remote boundRemote
}

// boundRemote is the last built client and the settings it was built for.
// A new client means tab titles are resolved again.
type boundRemote struct {
	sheetID string
	token   string
	store   port.RemoteStore
}

func New(
	settings port.SettingsRepository,
	cache port.LogCache,
	remotes port.RemoteStoreFactory,
	opts ...Opt,
) *Service {
	s := &Service{
		settings:      settings,
		cache:         cache,
		remotes:       remotes,
		now:           time.Now,
		newID:         uuid.NewString,
		remoteTimeout: DefaultRemoteTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Products(ctx context.Context) []domain.Product {
	const op = "Service.Products"
	log := slog.With("op", op)

	remote, ok := s.remoteStore(ctx, op)
	if !ok {
		fallbackTotal.WithLabelValues(op, reasonNoToken).Inc()
		return SampleProducts()
	}

	rctx, cancel := s.remoteContext(ctx)
	defer cancel()

	ps, err := remote.FetchProducts(rctx)
	if err != nil {
		log.Warn("failed to fetch products, using sample catalog", "err", err)
		fallbackTotal.WithLabelValues(op, reasonRemoteError).Inc()
		return SampleProducts()
	}
	if len(ps) == 0 {
		fallbackTotal.WithLabelValues(op, reasonEmpty).Inc()
		return SampleProducts()
	}
	return ps
}

func (s *Service) Inspectors(ctx context.Context) []domain.Inspector {
	const op = "Service.Inspectors"
	log := slog.With("op", op)

	remote, ok := s.remoteStore(ctx, op)
	if !ok {
		fallbackTotal.WithLabelValues(op, reasonNoToken).Inc()
		return SampleInspectors()
	}

	rctx, cancel := s.remoteContext(ctx)
	defer cancel()

	is, err := remote.FetchInspectors(rctx)
	if err != nil {
		log.Warn("failed to fetch inspectors, using sample roster", "err", err)
		fallbackTotal.WithLabelValues(op, reasonRemoteError).Inc()
		return SampleInspectors()
	}
	if len(is) == 0 {
		fallbackTotal.WithLabelValues(op, reasonEmpty).Inc()
		return SampleInspectors()
	}
	return is
}

// Logs returns the spreadsheet journal, even an empty one, whenever the
// fetch completes. Otherwise the local cache answers.
func (s *Service) Logs(ctx context.Context) []domain.InspectionLog {
	const op = "Service.Logs"
	log := slog.With("op", op)

	remote, ok := s.remoteStore(ctx, op)
	if ok {
		rctx, cancel := s.remoteContext(ctx)
		logs, err := remote.FetchLogs(rctx)
		cancel()
		if err == nil {
			return logs
		}
		log.Warn("failed to fetch logs, using local cache", "err", err)
		fallbackTotal.WithLabelValues(op, reasonRemoteError).Inc()
	} else {
		fallbackTotal.WithLabelValues(op, reasonNoToken).Inc()
	}

	return s.localLogs(ctx)
}

// SaveQCLog stores the log locally and then tries the spreadsheet and the
// journal topic. Only a local cache failure is returned as an error.
func (s *Service) SaveQCLog(
	ctx context.Context, draft domain.InspectionDraft,
) (domain.InspectionLog, error) {
	const op = "Service.SaveQCLog"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.InspectionLog{}, fmt.Errorf("%s: %w", op, err)
	}

	l := draft.ToLog(s.newID(), s.now().UnixMilli())
	if l.Status == "" {
		l.Status = domain.StatusPass
	}

	if err := s.cache.PrependLog(ctx, l); err != nil {
		return domain.InspectionLog{}, fmt.Errorf("%s: %w", op, err)
	}
	log = log.With("id", l.ID)

	if remote, ok := s.remoteStore(ctx, op); ok {
		rctx, cancel := s.remoteContext(ctx)
		if err := remote.AppendLog(rctx, l); err != nil {
			log.Warn("saved locally only, spreadsheet append failed", "err", err)
			remoteWriteFailuresTotal.WithLabelValues("sheet").Inc()
		}
		cancel()
	}

	if s.publisher != nil {
		rctx, cancel := s.remoteContext(ctx)
		if err := s.publisher.PublishLog(rctx, l); err != nil {
			log.Warn("failed to publish log to journal topic", "err", err)
			remoteWriteFailuresTotal.WithLabelValues("journal").Inc()
		}
		cancel()
	}

	log.Info("inspection log saved", "status", l.Status)
	return l, nil
}

func (s *Service) ClearLocalLogs(ctx context.Context) error {
	const op = "Service.ClearLocalLogs"

	if err := s.cache.ClearLogs(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) Settings(ctx context.Context) (domain.ConnectionSettings, error) {
	const op = "Service.Settings"

	cs, err := s.settings.Settings(ctx)
	if err != nil {
		return domain.ConnectionSettings{}, fmt.Errorf("%s: %w", op, err)
	}
	return cs, nil
}

func (s *Service) SaveSettings(ctx context.Context, cs domain.ConnectionSettings) error {
	const op = "Service.SaveSettings"

	if err := s.settings.SaveSettings(ctx, cs); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Annotate reports false when no annotator is configured or the call fails.
func (s *Service) Annotate(
	ctx context.Context, notes, productName string,
) (domain.Annotation, bool) {
	const op = "Service.Annotate"
	log := slog.With("op", op)

	if s.annotator == nil {
		log.Debug("skipped", "err", ErrNoAnnotator)
		return domain.Annotation{}, false
	}

	rctx, cancel := s.remoteContext(ctx)
	defer cancel()

	a, err := s.annotator.Annotate(rctx, notes, productName)
	if err != nil {
		log.Warn("annotation unavailable", "err", err)
		return domain.Annotation{}, false
	}
	return a, true
}

func (s *Service) remoteContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.remoteTimeout)
}

func (s *Service) localLogs(ctx context.Context) []domain.InspectionLog {
	const op = "Service.localLogs"
	log := slog.With("op", op)

	logs, err := s.cache.Logs(ctx)
	if err != nil {
		log.Warn("failed to read local cache", "err", err)
		return []domain.InspectionLog{}
	}
	return logs
}

// remoteStore returns a client for the current settings, or false when
// there is no access token or the client cannot be built.
func (s *Service) remoteStore(ctx context.Context, caller string) (port.RemoteStore, bool) {
	log := slog.With("op", caller)

	cs, err := s.settings.Settings(ctx)
	if err != nil {
		log.Warn("failed to load settings", "err", err)
		return nil, false
	}
	if !cs.HasToken() {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.remote
	if r.store != nil && r.sheetID == cs.SheetID && r.token == cs.GoogleAccessToken {
		return r.store, true
	}

	store, err := s.remotes(cs)
	if err != nil {
		log.Warn("failed to build spreadsheet client", "err", err)
		return nil, false
	}
	s.remote = boundRemote{
		sheetID: cs.SheetID,
		token:   cs.GoogleAccessToken,
		store:   store,
	}
	return store, true
}
