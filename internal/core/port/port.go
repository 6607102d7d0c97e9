package port

import (
	"context"

	"github.com/niksmo/qc-logbook/internal/core/domain"
)

type SettingsRepository interface {
	Settings(context.Context) (domain.ConnectionSettings, error)
	SaveSettings(context.Context, domain.ConnectionSettings) error
}

type LogCache interface {
	Logs(context.Context) ([]domain.InspectionLog, error)
	PrependLog(context.Context, domain.InspectionLog) error
	ClearLogs(context.Context) error
}

// RemoteStore reads and appends against the spreadsheet.
type RemoteStore interface {
	FetchProducts(context.Context) ([]domain.Product, error)
	FetchInspectors(context.Context) ([]domain.Inspector, error)
	FetchLogs(context.Context) ([]domain.InspectionLog, error)
	AppendLog(context.Context, domain.InspectionLog) error
}

// RemoteStoreFactory builds a client bound to the given settings.
type RemoteStoreFactory func(domain.ConnectionSettings) (RemoteStore, error)

type JournalPublisher interface {
	PublishLog(context.Context, domain.InspectionLog) error
}

type Annotator interface {
	Annotate(ctx context.Context, notes, productName string) (domain.Annotation, error)
}

// QCService is the single entry point used by the CLI and HTTP adapters.
type QCService interface {
	Products(context.Context) []domain.Product
	Inspectors(context.Context) []domain.Inspector
	Logs(context.Context) []domain.InspectionLog
	SaveQCLog(context.Context, domain.InspectionDraft) (domain.InspectionLog, error)
	ClearLocalLogs(context.Context) error
	Settings(context.Context) (domain.ConnectionSettings, error)
	SaveSettings(context.Context, domain.ConnectionSettings) error
	Annotate(ctx context.Context, notes, productName string) (domain.Annotation, bool)
}
