// Package audit captures the deterministic run record: one record per
// pipeline milestone, written as both audit-log.json and a fixed-column
// audit-log.txt.
package audit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind enumerates the record kinds a run can emit.
type Kind string

const (
	ToolStarted            Kind = "tool_started"
	InputLoaded            Kind = "input_loaded"
	ParseStarted           Kind = "parse_started"
	ParseCompleted         Kind = "parse_completed"
	GenerationStarted      Kind = "generation_started"
	GenerationCompleted    Kind = "generation_completed"
	ValidationResult       Kind = "validation_result"
	TransactionStarted     Kind = "transaction_started"
	TransactionCommitted   Kind = "transaction_committed"
	TransactionRolledBack  Kind = "transaction_rolled_back"
	ManifestGenerated      Kind = "manifest_generated"
	ToolCompleted          Kind = "tool_completed"
	ToolFailed             Kind = "tool_failed"
)

// Severity of a record.
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// Record is one emitted audit entry. Timestamp is the only field excluded
// from determinism checks.
type Record struct {
	RecordID      string                 `json:"recordId"`
	Sequence      int                    `json:"sequence"`
	Timestamp     string                 `json:"timestamp"`
	Kind          Kind                   `json:"kind"`
	Severity      Severity               `json:"severity"`
	CorrelationID string                 `json:"correlationId"`
	Message       string                 `json:"message"`
	Data          map[string]interface{} `json:"data,omitempty"`
}

// Log accumulates records for a single run. It is owned by exactly one
// component (the orchestrator) and accepts appends via a single reference,
// per the "no concurrent writers" rule.
type Log struct {
	correlationID string
	records       []Record
	seq           int
}

// New starts a log for one run with a fresh correlation id.
func New() *Log {
	return &Log{correlationID: uuid.NewString()}
}

// CorrelationID returns the id shared by every record this Log emits.
func (l *Log) CorrelationID() string { return l.correlationID }

// Append records one event and returns it.
func (l *Log) Append(kind Kind, severity Severity, message string, data map[string]interface{}) Record {
	l.seq++
	r := Record{
		RecordID:      uuid.NewString(),
		Sequence:      l.seq,
		Timestamp:     time.Now().UTC().Format(time.RFC3339Nano),
		Kind:          kind,
		Severity:      severity,
		CorrelationID: l.correlationID,
		Message:       message,
		Data:          data,
	}
	l.records = append(l.records, r)
	return r
}

// Records returns the accumulated records in sequence order.
func (l *Log) Records() []Record { return l.records }

// MarshalJSON renders audit-log.json: records in sequence order.
func (l *Log) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(l.records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalText renders audit-log.txt: one fixed-column line per record.
func (l *Log) MarshalText() []byte {
	var buf bytes.Buffer
	for _, r := range l.records {
		fmt.Fprintf(&buf, "%06d  %-24s  %-22s  %-5s  %s  %s\n",
			r.Sequence, r.Timestamp, r.Kind, r.Severity, r.CorrelationID, r.Message)
	}
	return buf.Bytes()
}
