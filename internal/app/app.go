package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/niksmo/qc-logbook/config"
	"github.com/niksmo/qc-logbook/internal/adapter"
	"github.com/niksmo/qc-logbook/internal/adapter/gemini"
	"github.com/niksmo/qc-logbook/internal/adapter/httphandler"
	"github.com/niksmo/qc-logbook/internal/adapter/kafka"
	"github.com/niksmo/qc-logbook/internal/adapter/sheets"
	"github.com/niksmo/qc-logbook/internal/adapter/storage"
	"github.com/niksmo/qc-logbook/internal/core/port"
	"github.com/niksmo/qc-logbook/internal/core/service"
	"github.com/niksmo/qc-logbook/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
	"gopkg.in/natefinch/lumberjack.v2"
)

const localWorkSlack = 5 * time.Second

type outbound struct {
	db        storage.SQLDB
	cache     storage.CacheStore
	remotes   port.RemoteStoreFactory
	journal   *kafka.JournalProducer
	annotator port.Annotator
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	logOutput  io.Closer
	outbound   outbound
	service    *service.Service
	httpServer *httphandler.HTTPServer
}

// New wires the logger, the local cache, the spreadsheet client factory and
// the optional annotator and journal publisher. The broker and the model
// are only used when configured.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{ctx: ctx, cfg: cfg}

	if err := app.initLogger(); err != nil {
		return nil, err
	}
	if err := app.initOutboundAdapters(); err != nil {
		app.Close(ctx)
		return nil, err
	}
	app.initCoreService()

	return app, nil
}

func (app *App) Service() port.QCService {
	return app.service
}

func (app *App) initLogger() error {
	const op = "App.initLogger"

	level, err := app.cfg.SlogLevel()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var w io.Writer = os.Stderr
	if app.cfg.LogFile != "" {
		lj := &lumberjack.Logger{
			Filename:   app.cfg.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		app.logOutput = lj
		w = lj
	}

	opts := &slog.HandlerOptions{Level: level}
	logger := slog.New(slog.NewJSONHandler(w, opts))
	slog.SetDefault(logger)
	return nil
}

func (app *App) initOutboundAdapters() error {
	const op = "App.initOutboundAdapters"
	log := slog.With("op", op)
	ctx := app.ctx

	db, err := storage.NewSQLDB(ctx, app.cfg.CacheDB)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	app.outbound.db = db

	if err := storage.Migrate(db.DB); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	app.outbound.cache = storage.NewCacheStore(db)

	hc := &http.Client{Timeout: app.cfg.HTTPTimeout}
	app.outbound.remotes = sheets.NewFactory(ctx, app.cfg.Sheets.Endpoint, hc)

	if app.cfg.GenAI.APIKey != "" {
		a, err := gemini.New(
			ctx,
			gemini.APIKeyOpt(app.cfg.GenAI.APIKey),
			gemini.ModelOpt(app.cfg.GenAI.Model),
			gemini.HTTPClientOpt(hc),
		)
		if err != nil {
			log.Warn("annotator disabled", "err", err)
		} else {
			app.outbound.annotator = a
		}
	}

	if len(app.cfg.Broker.SeedBrokers) != 0 {
		serde, err := schema.NewSerdeInspectionLogV1()
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		var kopts []kgo.Opt
		tlsCfg, err := adapter.MakeTLSConfig(
			app.cfg.Broker.TLS.CAFile,
			app.cfg.Broker.TLS.CertFile,
			app.cfg.Broker.TLS.KeyFile,
		)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if tlsCfg != nil {
			kopts = append(kopts, kgo.DialTLSConfig(tlsCfg))
		}

		p, err := kafka.NewJournalProducer(
			kafka.ProducerClientOpt(
				ctx, app.cfg.Broker.SeedBrokers, app.cfg.Broker.JournalTopic,
				kopts...,
			),
			kafka.ProducerEncoderOpt(serde),
		)
		if err != nil {
			log.Warn("journal publisher disabled", "err", err)
		} else {
			app.outbound.journal = &p
		}
	}

	return nil
}

func (app *App) initCoreService() {
	opts := []service.Opt{service.WithRemoteTimeout(app.cfg.HTTPTimeout)}
	if app.outbound.annotator != nil {
		opts = append(opts, service.WithAnnotator(app.outbound.annotator))
	}
	if app.outbound.journal != nil {
		opts = append(opts, service.WithJournalPublisher(app.outbound.journal))
	}

	app.service = service.New(
		app.outbound.cache,
		app.outbound.cache,
		app.outbound.remotes,
		opts...,
	)
}

func (app *App) initInboundAdapters() {
	handler := httphandler.NewMux(app.service)
	s := httphandler.NewHTTPServer(
		app.cfg.HTTPServerAddr, handler, requestTimeout(app.cfg.HTTPTimeout),
	)
	app.httpServer = &s
}

// requestTimeout outlasts the longest request: a save makes two remote
// steps, each bounded by remoteTimeout, before local work finishes.
func requestTimeout(remoteTimeout time.Duration) time.Duration {
	return 2*remoteTimeout + localWorkSlack
}

// Run starts the HTTP API. stopFn is called when the server stops on its own.
func (app *App) Run(stopFn context.CancelFunc) {
	app.initInboundAdapters()
	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	if app.httpServer != nil {
		app.httpServer.Close(ctx)
	}
	if app.outbound.journal != nil {
		app.outbound.journal.Close()
	}
	if app.outbound.db.DB != nil {
		app.outbound.db.Close()
	}

	slog.Info("application is closed")

	if app.logOutput != nil {
		_ = app.logOutput.Close()
	}
}
