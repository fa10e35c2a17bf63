package pdftext

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

const (
	cognitiveScope = "https://cognitiveservices.azure.com/.default"
	apiKeyHeader   = "Ocp-Apim-Subscription-Key"
	moduleName     = "lading/pdftext"
	moduleVersion  = "v0.1.0"
)

type azure struct {
	pipeline   runtime.Pipeline
	endpoint   string
	model      string
	apiVersion string
	timeout    time.Duration
	interval   time.Duration
}

// NewAzure returns an Extractor backed by Azure AI Document Intelligence.
func NewAzure(cfg *AzureConfig) (Extractor, error) {
	var auth policy.Policy
	if cfg.APIKey != "" {
		auth = &apiKeyPolicy{key: cfg.APIKey}
	} else {
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("azure credential: %w", err)
		}
		auth = runtime.NewBearerTokenPolicy(cred, []string{cognitiveScope}, nil)
	}

	return newAzure(cfg, auth, nil), nil
}

func newAzure(cfg *AzureConfig, auth policy.Policy, opts *policy.ClientOptions) *azure {
	pl := runtime.NewPipeline(moduleName, moduleVersion, runtime.PipelineOptions{
		PerRetry: []policy.Policy{auth},
	}, opts)

	return &azure{
		pipeline:   pl,
		endpoint:   strings.TrimSuffix(cfg.Endpoint, "/"),
		model:      cfg.Model,
		apiVersion: cfg.APIVersion,
		timeout:    cfg.TimeoutDuration(),
		interval:   cfg.PollIntervalDuration(),
	}
}

type apiKeyPolicy struct {
	key string
}

func (p *apiKeyPolicy) Do(req *policy.Request) (*http.Response, error) {
	req.Raw().Header.Set(apiKeyHeader, p.key)
	return req.Next()
}

type analyzeRequest struct {
	Base64Source string `json:"base64Source"`
}

type analyzeOperation struct {
	Status        string         `json:"status"`
	AnalyzeResult *analyzeResult `json:"analyzeResult"`
	Error         *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type analyzeResult struct {
	Content string `json:"content"`
	Pages   []struct {
		PageNumber int `json:"pageNumber"`
		Lines      []struct {
			Content string `json:"content"`
		} `json:"lines"`
	} `json:"pages"`
}

func (a *azure) Extract(ctx context.Context, data []byte) (*Result, error) {
	if len(data) == 0 {
		return nil, extractionError("empty document")
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	opURL, err := a.submit(ctx, data)
	if err != nil {
		return nil, a.wrap(ctx, err)
	}

	result, err := a.poll(ctx, opURL)
	if err != nil {
		return nil, a.wrap(ctx, err)
	}

	return newResult(result.pages()), nil
}

func (a *azure) submit(ctx context.Context, data []byte) (string, error) {
	u := fmt.Sprintf(
		"%s/documentintelligence/documentModels/%s:analyze?api-version=%s",
		a.endpoint, url.PathEscape(a.model), url.QueryEscape(a.apiVersion),
	)

	req, err := runtime.NewRequest(ctx, http.MethodPost, u)
	if err != nil {
		return "", err
	}
	body := analyzeRequest{Base64Source: base64.StdEncoding.EncodeToString(data)}
	if err := runtime.MarshalAsJSON(req, body); err != nil {
		return "", err
	}

	resp, err := a.pipeline.Do(req)
	if err != nil {
		return "", err
	}
	defer runtime.Drain(resp)

	if !runtime.HasStatusCode(resp, http.StatusAccepted) {
		return "", runtime.NewResponseError(resp)
	}

	opURL := resp.Header.Get("Operation-Location")
	if opURL == "" {
		return "", errors.New("analyze response missing Operation-Location")
	}
	return opURL, nil
}

func (a *azure) poll(ctx context.Context, opURL string) (*analyzeResult, error) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		op, err := a.status(ctx, opURL)
		if err != nil {
			return nil, err
		}

		switch strings.ToLower(op.Status) {
		case "succeeded":
			if op.AnalyzeResult == nil {
				return nil, errors.New("analyze succeeded without a result")
			}
			return op.AnalyzeResult, nil
		case "failed", "canceled":
			if op.Error != nil {
				return nil, fmt.Errorf("analyze %s: %s: %s", op.Status, op.Error.Code, op.Error.Message)
			}
			return nil, fmt.Errorf("analyze %s", op.Status)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (a *azure) status(ctx context.Context, opURL string) (*analyzeOperation, error) {
	req, err := runtime.NewRequest(ctx, http.MethodGet, opURL)
	if err != nil {
		return nil, err
	}

	resp, err := a.pipeline.Do(req)
	if err != nil {
		return nil, err
	}

	if !runtime.HasStatusCode(resp, http.StatusOK) {
		defer runtime.Drain(resp)
		return nil, runtime.NewResponseError(resp)
	}

	var op analyzeOperation
	if err := runtime.UnmarshalAsJSON(resp, &op); err != nil {
		return nil, err
	}
	return &op, nil
}

func (a *azure) wrap(ctx context.Context, err error) error {
	switch ctxErr := ctx.Err(); {
	case errors.Is(ctxErr, context.DeadlineExceeded):
		return fmt.Errorf("%w: azure analyze timed out after %s: %w", ErrExtraction, a.timeout, ctxErr)
	case ctxErr != nil:
		return fmt.Errorf("azure analyze: %w", ctxErr)
	}

	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return extractionError("azure analyze: %s (HTTP %d)", respErr.ErrorCode, respErr.StatusCode)
	}
	return extractionError("azure analyze: %v", err)
}

func (r *analyzeResult) pages() []Page {
	if len(r.Pages) == 0 {
		return []Page{{PageNumber: 1, Text: strings.TrimSpace(r.Content)}}
	}

	pages := make([]Page, 0, len(r.Pages))
	for _, p := range r.Pages {
		lines := make([]string, len(p.Lines))
		for i, l := range p.Lines {
			lines[i] = l.Content
		}
		pages = append(pages, Page{
			PageNumber: p.PageNumber,
			Text:       strings.Join(lines, "\n"),
		})
	}

	sort.Slice(pages, func(i, j int) bool {
		return pages[i].PageNumber < pages[j].PageNumber
	})
	return pages
}
