package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/graphql-go/graphql"
)

// maxBodyBytes caps the size of a GraphQL request body.
const maxBodyBytes = 1 << 20

// Request is a GraphQL-over-HTTP request.
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName,omitempty"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
}

// Handler serves GraphQL requests. It accepts POST with a JSON body and
// GET with query, operationName and variables parameters.
type Handler struct {
	schema graphql.Schema
	logger *slog.Logger
}

// NewHandler creates a GraphQL handler. If logger is nil, a discard logger is used.
func NewHandler(schema graphql.Schema, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{schema: schema, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, status, msg := decodeRequest(w, r)
	if status != 0 {
		http.Error(w, msg, status)
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})
	if result.HasErrors() {
		h.logger.Debug("graphql request returned errors",
			"operation", req.OperationName,
			"errors", len(result.Errors))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.logger.Error("failed to write graphql response", "error", err)
	}
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (Request, int, string) {
	var req Request
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req.Query = q.Get("query")
		req.OperationName = q.Get("operationName")
		if vars := q.Get("variables"); vars != "" {
			if err := json.Unmarshal([]byte(vars), &req.Variables); err != nil {
				return req, http.StatusBadRequest, "invalid variables: " + err.Error()
			}
		}
	case http.MethodPost:
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err := dec.Decode(&req); err != nil {
			return req, http.StatusBadRequest, "invalid request body: " + err.Error()
		}
	default:
		return req, http.StatusMethodNotAllowed, "method not allowed"
	}

	if req.Query == "" {
		return req, http.StatusBadRequest, "missing query"
	}
	return req, 0, ""
}
