package sdk

import (
	"context"
	"net/http"
	"time"

	chitransport "github.com/kailas-cloud/fieldex/internal/transport/chi"
)

// HealthStatus represents the aggregated server health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}

// Healthy reports whether every check passed.
func (h HealthStatus) Healthy() bool { return h.Status == "ok" }

// Health fetches the server health. An unhealthy server is not an error.
func (c *Client) Health(ctx context.Context) (_ HealthStatus, err error) {
	start := time.Now()
	defer func() { c.obs.observe("health", start, err) }()

	var resp chitransport.HealthResponse
	_, err = c.do(ctx, http.MethodGet, "/health", nil, nil, &resp,
		http.StatusOK, http.StatusServiceUnavailable)
	if err != nil {
		return HealthStatus{}, err
	}
	return HealthStatus{Status: resp.Status, Checks: resp.Checks}, nil
}

// TypeInfo describes a type registered on the server.
type TypeInfo struct {
	Type     string
	Resolver string
	GoType   string
}

// Types lists the registered types.
func (c *Client) Types(ctx context.Context) (_ []TypeInfo, err error) {
	start := time.Now()
	defer func() { c.obs.observe("types", start, err) }()

	var resp chitransport.TypeListResponse
	if _, err = c.do(ctx, http.MethodGet, "/types", nil, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]TypeInfo, len(resp.Types))
	for i, t := range resp.Types {
		out[i] = TypeInfo(t)
	}
	return out, nil
}
