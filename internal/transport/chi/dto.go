package chi

import (
	"github.com/kailas-cloud/fieldex/internal/domain/batch"
	"github.com/kailas-cloud/fieldex/internal/domain/document"
	"github.com/kailas-cloud/fieldex/internal/domain/field"
	"github.com/kailas-cloud/fieldex/internal/domain/posting"
	"github.com/kailas-cloud/fieldex/internal/resolver"
)

// FieldRequest is the body of POST /fields.
type FieldRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Field describes a declared field.
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// FieldListResponse is the body of GET /fields.
type FieldListResponse struct {
	Fields []Field `json:"fields"`
}

// ValueRequest is the body of POST /fields/{field}/values.
type ValueRequest struct {
	DocID string `json:"doc_id"`
	Text  string `json:"text"`
}

// QueryResponse is the body of GET /fields/{field}/query.
type QueryResponse struct {
	DocIDs []string `json:"doc_ids"`
}

// DocumentValue is one raw value of a document.
type DocumentValue struct {
	Field string `json:"field"`
	Text  string `json:"text"`
}

// DocumentRequest is the body of POST /documents. Strict overrides the
// server default when set.
type DocumentRequest struct {
	ID     string          `json:"id"`
	Values []DocumentValue `json:"values"`
	Strict *bool           `json:"strict,omitempty"`
}

// ValueResult is the outcome of one document value.
type ValueResult struct {
	Field  string         `json:"field"`
	Status string         `json:"status"`
	Error  *ErrorResponse `json:"error,omitempty"`
}

// DocumentResponse is the body of POST /documents.
type DocumentResponse struct {
	ID        string        `json:"id"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Results   []ValueResult `json:"results"`
}

// TypeInfo describes a registered type.
type TypeInfo struct {
	Type     string `json:"type"`
	Resolver string `json:"resolver"`
	GoType   string `json:"go_type"`
}

// TypeListResponse is the body of GET /types.
type TypeListResponse struct {
	Types []TypeInfo `json:"types"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func fieldToDTO(d field.Definition) Field {
	return Field{Name: d.Name(), Type: d.Tag().String()}
}

func typeToDTO(i resolver.Info) TypeInfo {
	return TypeInfo{Type: i.Tag.String(), Resolver: i.Resolver, GoType: i.GoType}
}

func docIDsToDTO(ids []posting.DocID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func documentFromRequest(req DocumentRequest) (document.Document, error) {
	values := make([]document.RawValue, len(req.Values))
	for i, v := range req.Values {
		values[i] = document.RawValue{Field: v.Field, Text: v.Text}
	}
	return document.New(posting.DocID(req.ID), values)
}

func batchResultToDTO(r batch.Result) ValueResult {
	item := ValueResult{
		Field:  r.Field(),
		Status: string(r.Status()),
	}
	if r.Err() != nil {
		_, code, msg := classify(r.Err())
		item.Error = &ErrorResponse{Code: code, Message: msg}
	}
	return item
}
