// Package sheets reads and appends QC data in a Google Sheets spreadsheet.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/niksmo/qc-logbook/internal/core/domain"
	"github.com/niksmo/qc-logbook/internal/core/port"
	"github.com/niksmo/qc-logbook/pkg/record"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

var _ port.RemoteStore = (*Client)(nil)

var (
	ErrFetchFailed = errors.New("failed to fetch sheet data")
	ErrSaveFailed  = errors.New("failed to save to sheet")
)

const (
	productsCols   = "A2:D"
	inspectorsCols = "A2:B"
	logsCols       = "A2:I"
	appendCols     = "A:I"

	// The spreadsheet applies its own type coercion and locale parsing,
	// as if the values were typed by a user.
	valueInputOption = "USER_ENTERED"

	metadataFields = "sheets.properties(sheetId,title)"
)

type Opt func(*clientOpts) error

type clientOpts struct {
	spreadsheetID string
	accessToken   string
	endpoint      string
	httpClient    *http.Client
}

func SpreadsheetOpt(id string) Opt {
	return func(o *clientOpts) error {
		if id == "" {
			return errors.New("spreadsheet id is empty string")
		}
		o.spreadsheetID = id
		return nil
	}
}

func AccessTokenOpt(token string) Opt {
	return func(o *clientOpts) error {
		if token == "" {
			return errors.New("access token is empty string")
		}
		o.accessToken = token
		return nil
	}
}

// EndpointOpt overrides the API base URL. An empty url keeps the default.
func EndpointOpt(url string) Opt {
	return func(o *clientOpts) error {
		if url != "" && !strings.HasSuffix(url, "/") {
			url += "/"
		}
		o.endpoint = url
		return nil
	}
}

// HTTPClientOpt sets the client whose transport and timeout are used
// underneath the bearer-token transport.
func HTTPClientOpt(c *http.Client) Opt {
	return func(o *clientOpts) error {
		if c == nil {
			return errors.New("http client is nil")
		}
		o.httpClient = c
		return nil
	}
}

// Client is bound to one spreadsheet and one access token. Tab titles are
// resolved on first use and kept for the lifetime of the Client once a
// metadata fetch succeeds. A failed fetch serves the default titles to that
// call only.
type Client struct {
	svc           *gsheets.Service
	spreadsheetID string
	decoder       record.Decoder

	mu       sync.Mutex
	resolved bool
	titles   domain.TabTitles
}

func New(ctx context.Context, opts ...Opt) (*Client, error) {
	const op = "sheets.New"

	options := clientOpts{httpClient: http.DefaultClient}
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if options.spreadsheetID == "" || options.accessToken == "" {
		return nil, fmt.Errorf("%s: spreadsheet id and access token are required", op)
	}

	svcOpts := []option.ClientOption{
		option.WithHTTPClient(bearerClient(options.httpClient, options.accessToken)),
	}
	if options.endpoint != "" {
		svcOpts = append(svcOpts, option.WithEndpoint(options.endpoint))
	}

	svc, err := gsheets.NewService(ctx, svcOpts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Client{svc: svc, spreadsheetID: options.spreadsheetID}, nil
}

// NewFactory adapts New to [port.RemoteStoreFactory].
func NewFactory(ctx context.Context, endpoint string, hc *http.Client) port.RemoteStoreFactory {
	return func(s domain.ConnectionSettings) (port.RemoteStore, error) {
		opts := []Opt{
			SpreadsheetOpt(s.SheetID),
			AccessTokenOpt(s.GoogleAccessToken),
			EndpointOpt(endpoint),
		}
		if hc != nil {
			opts = append(opts, HTTPClientOpt(hc))
		}
		return New(ctx, opts...)
	}
}

func (c *Client) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "Client.FetchProducts"

	titles := c.tabTitles(ctx)
	rows, err := c.readRange(ctx, a1Range(titles.Catalog, productsCols))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrFetchFailed, err)
	}
	return c.decoder.Products(rows), nil
}

// FetchInspectors is best-effort: a failed request reads as an empty roster.
func (c *Client) FetchInspectors(ctx context.Context) ([]domain.Inspector, error) {
	const op = "Client.FetchInspectors"
	log := slog.With("op", op)

	titles := c.tabTitles(ctx)
	rows, err := c.readRange(ctx, a1Range(titles.Roster, inspectorsCols))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s: %w", op, ctxErr)
		}
		log.Warn("failed to fetch inspectors", "err", err)
		return []domain.Inspector{}, nil
	}
	return c.decoder.Inspectors(rows), nil
}

// FetchLogs returns the journal newest first. A failed request reads as
// an empty journal.
func (c *Client) FetchLogs(ctx context.Context) ([]domain.InspectionLog, error) {
	const op = "Client.FetchLogs"
	log := slog.With("op", op)

	titles := c.tabTitles(ctx)
	rows, err := c.readRange(ctx, a1Range(titles.Journal, logsCols))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s: %w", op, ctxErr)
		}
		log.Warn("failed to fetch logs", "err", err)
		return []domain.InspectionLog{}, nil
	}

	logs := c.decoder.Logs(rows)
	slices.Reverse(logs)
	return logs, nil
}

func (c *Client) AppendLog(ctx context.Context, l domain.InspectionLog) error {
	const op = "Client.AppendLog"

	titles := c.tabTitles(ctx)
	row := record.LogRow(l)
	values := make([]any, len(row))
	for i, v := range row {
		values[i] = v
	}

	vr := &gsheets.ValueRange{Values: [][]any{values}}
	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, a1Range(titles.Journal, appendCols), vr).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrSaveFailed, err)
	}
	return nil
}

func (c *Client) tabTitles(ctx context.Context) domain.TabTitles {
	const op = "Client.tabTitles"
	log := slog.With("op", op)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.resolved {
		return c.titles
	}

	tabs, err := c.fetchTabs(ctx)
	if err != nil {
		log.Warn("failed to fetch spreadsheet metadata, using default tab titles",
			"err", err)
		return DefaultTabTitles()
	}

	c.titles = ResolveTabs(tabs)
	c.resolved = true
	return c.titles
}

func (c *Client) fetchTabs(ctx context.Context) ([]domain.Tab, error) {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields(metadataFields).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	tabs := make([]domain.Tab, 0, len(ss.Sheets))
	for _, sheet := range ss.Sheets {
		if sheet == nil || sheet.Properties == nil {
			continue
		}
		tabs = append(tabs, domain.Tab{
			StableID: sheet.Properties.SheetId,
			Title:    sheet.Properties.Title,
		})
	}
	return tabs, nil
}

func (c *Client) readRange(ctx context.Context, rng string) ([][]string, error) {
	vr, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return toStrings(vr.Values), nil
}

func toStrings(values [][]any) [][]string {
	rows := make([][]string, len(values))
	for i, vs := range values {
		row := make([]string, len(vs))
		for j, v := range vs {
			if v != nil {
				row[j] = fmt.Sprint(v)
			}
		}
		rows[i] = row
	}
	return rows
}

// a1Range quotes the tab title so titles with spaces or quotes stay valid.
func a1Range(title, cols string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'!" + cols
}

type jsonTransport struct {
	base http.RoundTripper
}

func (t jsonTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("Content-Type", "application/json")
	return t.base.RoundTrip(r)
}

func bearerClient(hc *http.Client, token string) *http.Client {
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	return &http.Client{
		Timeout: hc.Timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   jsonTransport{base},
		},
	}
}
