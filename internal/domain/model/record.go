// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/okian/predboard/internal/domain/scoring"
)

// ErrInvalidRecord reports a record whose counts and accuracy disagree.
var ErrInvalidRecord = errors.New("invalid leaderboard record")

// Record is the best-ever result kept for one name.
type Record struct {
	Accuracy  float64   `json:"accuracy"`
	Correct   int       `json:"correct"`
	Total     int       `json:"total"`
	Timestamp time.Time `json:"timestamp"` // RFC 3339
}

// Board maps a name to its best record.
type Board map[string]Record

// NewRecord stamps a scoring result with the submission time.
func NewRecord(res scoring.Result, at time.Time) Record {
	return Record{
		Accuracy:  res.Accuracy,
		Correct:   res.Correct,
		Total:     res.Total,
		Timestamp: at,
	}
}

// accuracyEpsilon absorbs float noise when checking accuracy against counts.
const accuracyEpsilon = 1e-9

// Validate checks 0 <= correct <= total, 0 <= accuracy <= 100 and
// accuracy == correct/total*100. A record with no total must have zero accuracy.
func (r Record) Validate() error {
	switch {
	case r.Correct < 0 || r.Total < 0:
		return fmt.Errorf("%w: negative counts", ErrInvalidRecord)
	case r.Correct > r.Total:
		return fmt.Errorf("%w: correct %d exceeds total %d", ErrInvalidRecord, r.Correct, r.Total)
	case math.IsNaN(r.Accuracy) || r.Accuracy < 0 || r.Accuracy > 100:
		return fmt.Errorf("%w: accuracy %v out of range", ErrInvalidRecord, r.Accuracy)
	case r.Total == 0 && r.Accuracy != 0:
		return fmt.Errorf("%w: accuracy %v with no values", ErrInvalidRecord, r.Accuracy)
	case r.Total > 0 && math.Abs(r.Accuracy-float64(r.Correct)/float64(r.Total)*100) > accuracyEpsilon:
		return fmt.Errorf("%w: accuracy %v does not match %d/%d", ErrInvalidRecord, r.Accuracy, r.Correct, r.Total)
	}
	return nil
}

// Beats reports whether r has strictly higher accuracy than other.
func (r Record) Beats(other Record) bool {
	return r.Accuracy > other.Accuracy
}

// naiveISO is an ISO-8601 timestamp without zone, as written by older
// leaderboard files. It is read as local time.
const naiveISO = "2006-01-02T15:04:05.999999999"

// UnmarshalJSON accepts RFC 3339 timestamps and zone-less ISO-8601 ones.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw struct {
		Accuracy  float64 `json:"accuracy"`
		Correct   int     `json:"correct"`
		Total     int     `json:"total"`
		Timestamp string  `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var ts time.Time
	if raw.Timestamp != "" {
		var err error
		ts, err = time.Parse(time.RFC3339Nano, raw.Timestamp)
		if err != nil {
			ts, err = time.ParseInLocation(naiveISO, raw.Timestamp, time.Local)
		}
		if err != nil {
			return fmt.Errorf("%w: timestamp %q", ErrInvalidRecord, raw.Timestamp)
		}
	}

	*r = Record{Accuracy: raw.Accuracy, Correct: raw.Correct, Total: raw.Total, Timestamp: ts}
	return nil
}

// Clone returns an independent copy of the board.
func (b Board) Clone() Board {
	out := make(Board, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}
