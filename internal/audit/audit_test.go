package audit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAssignsMonotonicSequence(t *testing.T) {
	l := New()
	r1 := l.Append(ToolStarted, SeverityInfo, "starting", nil)
	r2 := l.Append(ParseStarted, SeverityInfo, "parsing", map[string]interface{}{"sheet": "Request"})

	assert.Equal(t, 1, r1.Sequence)
	assert.Equal(t, 2, r2.Sequence)
	assert.Equal(t, r1.CorrelationID, r2.CorrelationID)
	assert.NotEqual(t, r1.RecordID, r2.RecordID)
}

func TestMarshalJSONPreservesSequenceOrder(t *testing.T) {
	l := New()
	l.Append(ToolStarted, SeverityInfo, "starting", nil)
	l.Append(ToolCompleted, SeverityInfo, "done", nil)

	data, err := l.MarshalJSON()
	require.NoError(t, err)

	var records []Record
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 2)
	assert.Equal(t, ToolStarted, records[0].Kind)
	assert.Equal(t, ToolCompleted, records[1].Kind)
}

func TestMarshalTextOneLinePerRecord(t *testing.T) {
	l := New()
	l.Append(ToolStarted, SeverityInfo, "starting", nil)
	l.Append(ToolFailed, SeverityError, "boom", nil)

	text := string(l.MarshalText())
	assert.Contains(t, text, "tool_started")
	assert.Contains(t, text, "tool_failed")
	assert.Equal(t, 2, len(splitLines(text)))
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return lines
}
