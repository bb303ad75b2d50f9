package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"

	"resumematch/internal/errors"
	"resumematch/internal/types"
)

// healthHandler reports liveness and whether a model key is configured
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := types.HealthResponse{
		Status:           "ok",
		HasKeyConfigured: s.AI.HasKey(),
		KeyLength:        s.AI.KeyLength(),
		Timestamp:        s.now().UTC(),
	}
	writeJSON(w, http.StatusOK, response)
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service": "resumematch",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"auth_enabled":           len(s.APIKeys) > 0,
		},
		"ai": map[string]any{
			"dialect":          s.AI.Dialect(),
			"key_configured":   s.AI.HasKey(),
			"circuit_breakers": s.AI.GetCircuitBreakerStats(),
		},
	}

	if s.Validator != nil {
		vocab := s.Validator.Vocabulary()
		response["validator"] = map[string]any{
			"negative_terms": len(vocab.Negative),
			"positive_terms": len(vocab.Positive),
		}
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.Stats()
	} else {
		response["rate_limiting"] = LimiterStats{}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	if !hasMediaType(r, "application/json") {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return readError(err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

func readError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if stderrors.As(err, &maxBytesErr) {
		return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
	}
	return fmt.Errorf("failed to read request body: %w", err)
}

// hasMediaType compares the request media type, ignoring parameters such as charset
func hasMediaType(r *http.Request, want string) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == want
}

// statusForError maps an error kind to the HTTP status the API reports it with
func statusForError(err error) int {
	switch errors.KindOf(err) {
	case errors.KindValidation:
		return http.StatusBadRequest
	case errors.KindInvalidDocument, errors.KindExtractionFailure:
		return http.StatusUnprocessableEntity
	case errors.KindNetworkFailure, errors.KindAnalysisParseFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeAppError writes err as an ErrorResponse with the given status
func writeAppError(w http.ResponseWriter, err error, statusCode int) {
	kind := errors.KindOf(err)
	writeErrorResponse(w, kind.Title(), string(kind), errors.UserMessage(err), statusCode)
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, kind, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:   error,
		Kind:    kind,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
