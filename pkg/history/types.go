package history

import (
	"context"
	"time"
)

// Outcome values stored in Record.Outcome. Failed calls store the error kind
// reported by providers.KindOf instead ("transport", "api", ...).
const (
	OutcomeSuccess = "success"
)

// Record is one gateway call as kept in the call history.
type Record struct {
	// Identity
	ID        string    `json:"id"`        // UUID assigned when the record is written
	Timestamp time.Time `json:"timestamp"` // When the call started (UTC)

	// Request
	Provider     string `json:"provider"`      // Provider id ("openai", "anthropic", "gemini")
	Model        string `json:"model"`         // Model the call was sent to
	MessageCount int    `json:"message_count"` // Messages in the conversation
	Prompt       string `json:"prompt"`        // Content of the last message, possibly truncated

	// Result
	Outcome    string        `json:"outcome"`               // "success" or the error kind
	StatusCode int           `json:"status_code,omitempty"` // HTTP status, 0 when no response arrived
	Latency    time.Duration `json:"latency"`               // Round trip time reported by the transport
	Response   string        `json:"response,omitempty"`    // Response text, possibly truncated
	RequestID  string        `json:"request_id,omitempty"`  // Vendor request id when reported

	// Usage; nil when the vendor did not report the counter
	PromptTokens     *int `json:"prompt_tokens,omitempty"`
	CompletionTokens *int `json:"completion_tokens,omitempty"`
	TotalTokens      *int `json:"total_tokens,omitempty"`

	// Error message for failed calls
	Error string `json:"error,omitempty"`
}

// Query defines filter parameters for history records.
// Results are ordered newest first.
type Query struct {
	Provider string   // Filter by provider id
	Model    string   // Filter by model
	Outcome  string   // Filter by outcome ("success" or an error kind)
	IDs      []string // Restrict to these record ids

	Since  *time.Time // Inclusive lower bound on Timestamp
	Before *time.Time // Exclusive upper bound on Timestamp

	Limit  int // Max records to return, 0 means unlimited
	Offset int // Skip N records
}

// Matches reports whether the record passes the query filters. Limit and
// Offset are not considered.
func (q *Query) Matches(r *Record) bool {
	if q == nil {
		return true
	}
	if q.Provider != "" && r.Provider != q.Provider {
		return false
	}
	if q.Model != "" && r.Model != q.Model {
		return false
	}
	if q.Outcome != "" && r.Outcome != q.Outcome {
		return false
	}
	if q.Since != nil && r.Timestamp.Before(*q.Since) {
		return false
	}
	if q.Before != nil && !r.Timestamp.Before(*q.Before) {
		return false
	}
	if len(q.IDs) > 0 {
		found := false
		for _, id := range q.IDs {
			if id == r.ID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Store defines the interface for history storage backends.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save persists a record. The record must already carry an ID.
	Save(ctx context.Context, record *Record) error

	// Query retrieves records matching the filters, newest first.
	// Returns an empty slice if no records match.
	Query(ctx context.Context, query *Query) ([]*Record, error)

	// Count returns the number of records matching the filters.
	Count(ctx context.Context, query *Query) (int64, error)

	// Delete removes records matching the filters and returns how many were
	// removed. Limit and Offset are ignored.
	Delete(ctx context.Context, query *Query) (int64, error)

	// Close releases any resources held by the backend.
	Close() error
}
