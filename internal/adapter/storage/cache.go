package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/niksmo/qc-logbook/internal/core/domain"
	"github.com/niksmo/qc-logbook/internal/core/port"
)

var (
	_ port.SettingsRepository = (*CacheStore)(nil)
	_ port.LogCache           = (*CacheStore)(nil)
)

const (
	SettingsKey = "qc_app_settings"
	LogsKey     = "qc_logs"
)

type (
	settings struct {
		SheetID           string `json:"sheetId"`
		GoogleClientID    string `json:"googleClientId,omitempty"`
		GoogleAccessToken string `json:"googleAccessToken"`
	}

	inspectionLog struct {
		ID              string `json:"id"`
		ProductID       string `json:"productId"`
		ProductName     string `json:"productName"`
		ShippingOrderNo string `json:"shippingOrderNo,omitempty"`
		CheckDate       string `json:"checkDate"`
		Inspector       string `json:"inspector"`
		Notes           string `json:"notes"`
		Status          string `json:"status"`
		AIAnalysis      string `json:"aiAnalysis,omitempty"`
		CreatedAt       int64  `json:"createdAt"`
	}
)

// CacheStore keeps connection settings and the log history as JSON values
// under fixed keys. Logs are stored newest first.
//
// PrependLog rewrites the whole sequence. Writers in one process are
// serialized; separate processes sharing the file are not.
type CacheStore struct {
	sqldb sqldb
	mu    *sync.Mutex
}

func NewCacheStore(sqldb sqldb) CacheStore {
	return CacheStore{sqldb: sqldb, mu: new(sync.Mutex)}
}

// Settings returns zero settings when none were saved or the saved value
// is unreadable.
func (s CacheStore) Settings(ctx context.Context) (domain.ConnectionSettings, error) {
	const op = "CacheStore.Settings"
	log := slog.With("op", op)

	b, err := s.get(ctx, SettingsKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return domain.ConnectionSettings{}, nil
		}
		return domain.ConnectionSettings{}, fmt.Errorf("%s: %w", op, err)
	}

	var v settings
	if err := json.Unmarshal(b, &v); err != nil {
		log.Warn("corrupt settings, treating as empty", "err", err)
		return domain.ConnectionSettings{}, nil
	}
	return domain.ConnectionSettings{
		SheetID:           v.SheetID,
		GoogleClientID:    v.GoogleClientID,
		GoogleAccessToken: v.GoogleAccessToken,
	}, nil
}

func (s CacheStore) SaveSettings(ctx context.Context, cs domain.ConnectionSettings) error {
	const op = "CacheStore.SaveSettings"

	b, err := json.Marshal(settings{
		SheetID:           cs.SheetID,
		GoogleClientID:    cs.GoogleClientID,
		GoogleAccessToken: cs.GoogleAccessToken,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.put(ctx, SettingsKey, b); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Logs returns the cached history newest first. Unreadable data reads as
// an empty history.
func (s CacheStore) Logs(ctx context.Context) ([]domain.InspectionLog, error) {
	const op = "CacheStore.Logs"

	logs, err := s.logs(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return logs, nil
}

func (s CacheStore) PrependLog(ctx context.Context, l domain.InspectionLog) error {
	const op = "CacheStore.PrependLog"

	s.mu.Lock()
	defer s.mu.Unlock()

	logs, err := s.logs(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	vs := make([]inspectionLog, 0, len(logs)+1)
	vs = append(vs, toInspectionLog(l))
	for _, v := range logs {
		vs = append(vs, toInspectionLog(v))
	}

	b, err := json.Marshal(vs)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.put(ctx, LogsKey, b); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s CacheStore) ClearLogs(ctx context.Context) error {
	const op = "CacheStore.ClearLogs"

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.sqldb.ExecContext(ctx, `DELETE FROM kv WHERE key = ?;`, LogsKey); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s CacheStore) logs(ctx context.Context) ([]domain.InspectionLog, error) {
	const op = "CacheStore.logs"
	log := slog.With("op", op)

	b, err := s.get(ctx, LogsKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []domain.InspectionLog{}, nil
		}
		return nil, err
	}

	var vs []inspectionLog
	if err := json.Unmarshal(b, &vs); err != nil {
		log.Warn("corrupt log cache, treating as empty", "err", err)
		return []domain.InspectionLog{}, nil
	}

	logs := make([]domain.InspectionLog, len(vs))
	for i, v := range vs {
		logs[i] = v.toDomain()
	}
	return logs, nil
}

func (s CacheStore) get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var b []byte
	err := s.sqldb.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE key = ?;`, key,
	).Scan(&b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s CacheStore) put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	query := `
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at;`

	_, err := s.sqldb.ExecContext(ctx, query, key, value, time.Now().UnixMilli())
	return err
}

func toInspectionLog(l domain.InspectionLog) inspectionLog {
	return inspectionLog{
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

func (v inspectionLog) toDomain() domain.InspectionLog {
	return domain.InspectionLog{
		ID:              v.ID,
		ProductID:       v.ProductID,
		ProductName:     v.ProductName,
		ShippingOrderNo: v.ShippingOrderNo,
		CheckDate:       v.CheckDate,
		Inspector:       v.Inspector,
		Notes:           v.Notes,
		Status:          domain.ParseStatus(v.Status).OrDefault(),
		AIAnalysis:      v.AIAnalysis,
		CreatedAt:       v.CreatedAt,
	}
}
