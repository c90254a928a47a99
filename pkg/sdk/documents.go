package sdk

import (
	"context"
	"net/http"
	"time"

	chitransport "github.com/kailas-cloud/fieldex/internal/transport/chi"
)

// Value is one raw field value of a document.
type Value struct {
	Field string `json:"field"`
	Text  string `json:"text"`
}

// Document is a set of raw values indexed under one id.
type Document struct {
	ID     string  `json:"id"`
	Values []Value `json:"values"`
	// Strict overrides the server's batch mode when set.
	Strict *bool `json:"strict,omitempty"`
}

// ValueResult is the outcome of one document value.
type ValueResult struct {
	Field  string
	Status string // "ok", "error" or "skipped"
	Err    error  // *APIError, nil when Status is "ok"
}

// DocumentResult is the outcome of IndexDocument.
type DocumentResult struct {
	ID        string
	Succeeded int
	Failed    int
	Results   []ValueResult
}

// IndexDocument indexes every value of doc. Per-value failures are reported
// in the result; err is only set when the request itself failed.
func (c *Client) IndexDocument(ctx context.Context, doc Document) (_ DocumentResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("document.index", start, err) }()

	req := chitransport.DocumentRequest{ID: doc.ID, Strict: doc.Strict}
	req.Values = make([]chitransport.DocumentValue, len(doc.Values))
	for i, v := range doc.Values {
		req.Values[i] = chitransport.DocumentValue{Field: v.Field, Text: v.Text}
	}

	var resp chitransport.DocumentResponse
	if _, err = c.do(ctx, http.MethodPost, "/documents", nil, req, &resp); err != nil {
		return DocumentResult{}, err
	}

	out := DocumentResult{
		ID:        resp.ID,
		Succeeded: resp.Succeeded,
		Failed:    resp.Failed,
		Results:   make([]ValueResult, len(resp.Results)),
	}
	for i, r := range resp.Results {
		out.Results[i] = ValueResult{Field: r.Field, Status: r.Status}
		if r.Error != nil {
			out.Results[i].Err = &APIError{
				StatusCode: http.StatusOK,
				Code:       string(r.Error.Code),
				Message:    r.Error.Message,
			}
		}
	}
	return out, nil
}
