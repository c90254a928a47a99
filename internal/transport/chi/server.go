package chi

import (
	"encoding/json"
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/fieldex/internal/domain/batch"
	"github.com/kailas-cloud/fieldex/internal/domain/field"
	"github.com/kailas-cloud/fieldex/internal/domain/posting"
	batchuc "github.com/kailas-cloud/fieldex/internal/usecase/batch"
	dispatchuc "github.com/kailas-cloud/fieldex/internal/usecase/dispatch"
	healthuc "github.com/kailas-cloud/fieldex/internal/usecase/health"
)

// maxBodyBytes bounds request bodies; a document of max values at max text size fits.
const maxBodyBytes = 8 << 20

// Server serves the fieldex HTTP API over the dispatcher.
type Server struct {
	dispatch *dispatchuc.Service
	batch    *batchuc.Service
	health   *healthuc.Service
	logger   *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	dispatch *dispatchuc.Service,
	batch *batchuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		dispatch: dispatch,
		batch:    batch,
		health:   health,
		logger:   logger,
	}
}

// CreateField handles POST /fields.
func (s *Server) CreateField(w http.ResponseWriter, r *http.Request) {
	var req FieldRequest
	if !decode(w, r, &req) {
		return
	}

	created, err := s.dispatch.DeclareField(r.Context(), req.Name, field.Tag(req.Type))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, Field(req))
}

// ListFields handles GET /fields.
func (s *Server) ListFields(w http.ResponseWriter, _ *http.Request) {
	defs := s.dispatch.Fields()
	items := make([]Field, len(defs))
	for i, d := range defs {
		items[i] = fieldToDTO(d)
	}
	writeJSON(w, http.StatusOK, FieldListResponse{Fields: items})
}

// IndexValue handles POST /fields/{field}/values.
func (s *Server) IndexValue(w http.ResponseWriter, r *http.Request) {
	var req ValueRequest
	if !decode(w, r, &req) {
		return
	}

	name := gochi.URLParam(r, "field")
	if err := s.dispatch.IndexField(r.Context(), posting.DocID(req.DocID), name, req.Text); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// QueryField handles GET /fields/{field}/query?text=.
func (s *Server) QueryField(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("text") {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "query parameter \"text\" is required")
		return
	}

	ids, err := s.dispatch.QueryField(r.Context(), gochi.URLParam(r, "field"), q.Get("text"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, QueryResponse{DocIDs: docIDsToDTO(ids)})
}

// IndexDocument handles POST /documents.
func (s *Server) IndexDocument(w http.ResponseWriter, r *http.Request) {
	var req DocumentRequest
	if !decode(w, r, &req) {
		return
	}

	doc, err := documentFromRequest(req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	strict := s.batch.Strict()
	if req.Strict != nil {
		strict = *req.Strict
	}
	var results []batch.Result
	if strict {
		results = s.batch.IndexStrict(r.Context(), doc)
	} else {
		results = s.batch.Index(r.Context(), doc)
	}

	items := make([]ValueResult, len(results))
	for i, res := range results {
		items[i] = batchResultToDTO(res)
	}
	failed := batch.Failed(results)

	writeJSON(w, http.StatusOK, DocumentResponse{
		ID:        req.ID,
		Succeeded: len(results) - failed,
		Failed:    failed,
		Results:   items,
	})
}

// ListTypes handles GET /types.
func (s *Server) ListTypes(w http.ResponseWriter, _ *http.Request) {
	infos := s.dispatch.Types()
	items := make([]TypeInfo, len(infos))
	for i, info := range infos {
		items[i] = typeToDTO(info)
	}
	writeJSON(w, http.StatusOK, TypeListResponse{Types: items})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decode reads a JSON body into v, writing a 400 response on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}
