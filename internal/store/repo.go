package store

import (
	"context"
	"encoding/json"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
// Results are returned newest first.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To

	SessionID    string // exact match when set
	QuestionFile string // exact match when set
}

// Snapshot is a stored quiz progress snapshot. Data holds the progress
// record exactly as it is written to a progress file.
type Snapshot struct {
	ID           int
	Sequence     int64
	Timestamp    time.Time
	SessionID    string
	QuestionFile string
	Data         json.RawMessage
}

// SnapshotRepo manages quiz progress snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot. Sequence and Timestamp are assigned when
	// zero.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot for questionFile, or for any
	// question set when questionFile is empty. Returns nil if none exist.
	Latest(ctx context.Context, questionFile string) (*Snapshot, error)

	// Prune deletes all but the keep most recent snapshots of questionFile.
	Prune(ctx context.Context, questionFile string, keep int) error
}

// AttemptEventData captures one graded answer.
type AttemptEventData struct {
	SessionID    string
	QuestionFile string
	QuestionKey  string
	Kind         string
	Correct      bool
	UserAnswer   any
	Message      string
}

// AttemptEvent is a stored answer attempt.
type AttemptEvent struct {
	Sequence  int64
	Timestamp time.Time
	AttemptEventData
}

// Session actions.
const (
	SessionStart = "start"
	SessionEnd   = "end"
)

// SessionEventData captures the start or end of a quiz session.
type SessionEventData struct {
	SessionID    string
	QuestionFile string
	Action       string
	Score        int
	Total        int
	DurationSecs int
}

// SessionEvent is a stored session event.
type SessionEvent struct {
	Sequence  int64
	Timestamp time.Time
	SessionEventData
}

// ReviewEventData captures one flashcard review.
type ReviewEventData struct {
	SessionID string
	Deck      string
	CardID    string
	Correct   bool
	Box       int
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// AttemptStats summarizes attempts at one question.
type AttemptStats struct {
	Attempts int
	Correct  int
}

// Accuracy returns Correct / Attempts, or 0 with no attempts.
func (s AttemptStats) Accuracy() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Attempts)
}

// EventRepo provides append and query access to study events.
type EventRepo interface {
	AppendAttempt(ctx context.Context, data AttemptEventData) error
	AppendSession(ctx context.Context, data SessionEventData) error
	AppendReview(ctx context.Context, data ReviewEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	QueryAttempts(ctx context.Context, opts QueryOpts) ([]AttemptEvent, error)
	QuerySessions(ctx context.Context, opts QueryOpts) ([]SessionEvent, error)
	QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// QuestionStats returns attempt counts for one question of a set.
	QuestionStats(ctx context.Context, questionFile, questionKey string) (AttemptStats, error)
}
