package recorder

import (
	"time"

	"github.com/guregu/null/v6"
)

// AnalysisRecord is the summary row written after each analysis. It never
// carries the price series or the credential.
type AnalysisRecord struct {
	ID        string
	Ticker    string
	Period    string
	Rows      int
	LastClose null.Float
	SMA20     null.Float
	EMA20     null.Float
	AIText    bool
	Source    string // "web", "cli" or "watchlist"
	CreatedAt time.Time
}

// Recorder persists the analysis history.
type Recorder interface {
	RecordAnalysis(rec *AnalysisRecord) error
	Recent(limit int) ([]AnalysisRecord, error)
	Close() error
}
