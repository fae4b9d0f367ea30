package gateway

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"

	"github.com/totegamma/salesdesk/internal/infra/metrics"
	"github.com/totegamma/salesdesk/internal/usecase"
)

var tracer = otel.Tracer("gateway")

const maxResponseBody = 10 << 20

type BackendGateway struct {
	client  *http.Client
	baseURL string
}

func NewBackendGateway(baseURL string, timeout time.Duration) *BackendGateway {
	return &BackendGateway{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (g *BackendGateway) Do(ctx context.Context, r usecase.BackendRequest) (*usecase.BackendResponse, error) {
	ctx, span := tracer.Start(ctx, "Backend.Gateway.Do")
	defer span.End()

	span.SetAttributes(
		attribute.String("http.method", r.Method),
		attribute.String("backend.path", r.Path),
	)

	url := g.baseURL + r.Path
	if r.RawQuery != "" {
		url += "?" + r.RawQuery
	}

	var body io.Reader
	if len(r.Body) > 0 {
		body = bytes.NewReader(r.Body)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, url, body)
	if err != nil {
		span.RecordError(errors.Wrap(err, "failed to create request"))
		return nil, errors.Wrap(err, "failed to create request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if r.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.Token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		metrics.RecordBackend(r.Method, 0, time.Since(start).Seconds())
		span.RecordError(errors.Wrap(err, "backend request failed"))
		return nil, errors.Wrap(err, "backend request failed")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	metrics.RecordBackend(r.Method, resp.StatusCode, time.Since(start).Seconds())
	if err != nil {
		span.RecordError(errors.Wrap(err, "failed to read backend response"))
		return nil, errors.Wrap(err, "failed to read backend response")
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	return &usecase.BackendResponse{
		Status: resp.StatusCode,
		Body:   data,
	}, nil
}
