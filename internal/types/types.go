package types

import "time"

// Upload is one file handed over by drag-drop, file picker or multipart form
type Upload struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"-"`
}

// MatcherRequest is the body of POST /api/matcher
type MatcherRequest struct {
	Prompt string `json:"prompt"`
}

// StreamStatusTrailer is the HTTP trailer POST /api/matcher sets once the
// streamed body ends. A body marked StreamInterrupted is a fragment.
const StreamStatusTrailer = "X-Stream-Status"

const (
	StreamComplete    = "complete"
	StreamInterrupted = "interrupted"
)

// ValidateRequest is the JSON body of POST /api/validate
type ValidateRequest struct {
	Text string `json:"text"`
}

// HealthResponse is the body of GET /api/health
type HealthResponse struct {
	Status           string    `json:"status"`
	HasKeyConfigured bool      `json:"hasKeyConfigured"`
	KeyLength        int       `json:"keyLength"`
	Timestamp        time.Time `json:"timestamp"`
}

// AnalyzeResponse is the body of a successful POST /api/analyze
type AnalyzeResponse struct {
	RequestID string          `json:"requestId"`
	Dialect   string          `json:"dialect"`
	Cached    bool            `json:"cached"`
	Record    *AnalysisRecord `json:"record"`
}
