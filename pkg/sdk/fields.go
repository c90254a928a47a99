package sdk

import (
	"context"
	"net/http"
	"net/url"
	"time"

	chitransport "github.com/kailas-cloud/fieldex/internal/transport/chi"
)

// Field describes a declared field.
type Field struct {
	Name string
	Type string
}

// AddField declares name with the type tag. created is false when the field
// already existed with the same type.
func (c *Client) AddField(ctx context.Context, name, tag string) (created bool, err error) {
	start := time.Now()
	defer func() { c.obs.observe("field.add", start, err) }()

	status, err := c.do(ctx, http.MethodPost, "/fields",
		nil, chitransport.FieldRequest{Name: name, Type: tag}, nil)
	if err != nil {
		return false, err
	}
	return status == http.StatusCreated, nil
}

// Fields lists the declared fields ordered by name.
func (c *Client) Fields(ctx context.Context) (_ []Field, err error) {
	start := time.Now()
	defer func() { c.obs.observe("field.list", start, err) }()

	var resp chitransport.FieldListResponse
	if _, err = c.do(ctx, http.MethodGet, "/fields", nil, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]Field, len(resp.Fields))
	for i, f := range resp.Fields {
		out[i] = Field{Name: f.Name, Type: f.Type}
	}
	return out, nil
}

// IndexField indexes text for doc under the field name.
func (c *Client) IndexField(ctx context.Context, doc, name, text string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("field.index", start, err) }()

	_, err = c.do(ctx, http.MethodPost, "/fields/"+url.PathEscape(name)+"/values",
		nil, chitransport.ValueRequest{DocID: doc, Text: text}, nil)
	return err
}

// QueryField returns the ids of documents whose value of name matches text.
func (c *Client) QueryField(ctx context.Context, name, text string) (_ []string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("field.query", start, err) }()

	var resp chitransport.QueryResponse
	_, err = c.do(ctx, http.MethodGet, "/fields/"+url.PathEscape(name)+"/query",
		url.Values{"text": {text}}, nil, &resp)
	if err != nil {
		return nil, err
	}
	return resp.DocIDs, nil
}
