// Package gemini suggests a status and summary for inspection notes using
// the Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/niksmo/qc-logbook/internal/core/domain"
	"github.com/niksmo/qc-logbook/internal/core/port"
	"github.com/niksmo/qc-logbook/pkg/retry"
	"google.golang.org/genai"
)

var _ port.Annotator = (*Annotator)(nil)

var ErrMalformedResponse = errors.New("malformed model response")

const DefaultModel = "gemini-2.5-flash"

const promptTemplate = `You are a quality-control assistant for shipped goods.
Classify the inspector's notes for the product below.

Product: %s
Inspector notes: %s

Answer with a suggested status (PASS, FAIL or WARNING), a one-sentence
summary and a short defect category such as "Damage", "Packaging",
"Labeling" or "None".`

type Opt func(*annotatorOpts) error

type annotatorOpts struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	retry      retry.RetryConfig
}

func APIKeyOpt(key string) Opt {
	return func(o *annotatorOpts) error {
		if key == "" {
			return errors.New("api key is empty string")
		}
		o.apiKey = key
		return nil
	}
}

// ModelOpt selects the model. An empty name keeps [DefaultModel].
func ModelOpt(model string) Opt {
	return func(o *annotatorOpts) error {
		if model != "" {
			o.model = model
		}
		return nil
	}
}

func BaseURLOpt(url string) Opt {
	return func(o *annotatorOpts) error {
		o.baseURL = url
		return nil
	}
}

func HTTPClientOpt(c *http.Client) Opt {
	return func(o *annotatorOpts) error {
		o.httpClient = c
		return nil
	}
}

func RetryOpt(c retry.RetryConfig) Opt {
	return func(o *annotatorOpts) error {
		o.retry = c
		return nil
	}
}

type Annotator struct {
	client *genai.Client
	model  string
	retry  retry.RetryConfig
}

func New(ctx context.Context, opts ...Opt) (Annotator, error) {
	const op = "gemini.New"

	options := annotatorOpts{
		model: DefaultModel,
		retry: retry.RetryConfig{
			MaxAttempts: 3,
			Backoff:     retry.ExponentialBackoff(200 * time.Millisecond),
		},
	}
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return Annotator{}, fmt.Errorf("%s: %w", op, err)
		}
	}
	if options.apiKey == "" {
		return Annotator{}, fmt.Errorf("%s: api key is required", op)
	}
	options.retry.ShouldRetry = shouldRetry

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      options.apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  options.httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: options.baseURL},
	})
	if err != nil {
		return Annotator{}, fmt.Errorf("%s: %w", op, err)
	}

	return Annotator{client: client, model: options.model, retry: options.retry}, nil
}

func (a Annotator) Annotate(
	ctx context.Context, notes, productName string,
) (domain.Annotation, error) {
	const op = "Annotator.Annotate"

	prompt := fmt.Sprintf(promptTemplate, productName, notes)

	v, err := retry.DoWithResult(ctx, a.retry, func() (domain.Annotation, error) {
		resp, err := a.client.Models.GenerateContent(
			ctx, a.model, genai.Text(prompt), generateConfig(),
		)
		if err != nil {
			return domain.Annotation{}, err
		}
		return parseAnnotation(resp.Text())
	})
	if err != nil {
		return domain.Annotation{}, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

func generateConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"status": {
					Type: genai.TypeString,
					Enum: []string{
						string(domain.StatusPass),
						string(domain.StatusFail),
						string(domain.StatusWarning),
					},
				},
				"summary":  {Type: genai.TypeString},
				"category": {Type: genai.TypeString},
			},
			Required: []string{"status", "summary", "category"},
		},
	}
}

type annotationResponse struct {
	Status   string `json:"status"`
	Summary  string `json:"summary"`
	Category string `json:"category"`
}

func parseAnnotation(text string) (domain.Annotation, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var v annotationResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &v); err != nil {
		return domain.Annotation{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if strings.TrimSpace(v.Summary) == "" {
		return domain.Annotation{}, fmt.Errorf("%w: empty summary", ErrMalformedResponse)
	}

	return domain.Annotation{
		SuggestedStatus: domain.ParseStatus(v.Status).OrDefault(),
		Summary:         strings.TrimSpace(v.Summary),
		Category:        strings.TrimSpace(v.Category),
	}, nil
}

func shouldRetry(err error) bool {
	return !errors.Is(err, ErrMalformedResponse) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}
