// Package serializer renders the canonical IR to the on-disk JSON document.
// The encoding must be byte-identical for byte-identical
// input, so every knob that could introduce non-determinism is pinned:
// explicit nulls, two-space indent, Unix line endings, no HTML escaping,
// and insertion-order collections (guaranteed by the ir package's struct
// field order, which encoding/json preserves).
package serializer

import (
	"bytes"
	"encoding/json"

	"ssw-msgspec-gen/internal/ir"
)

// Marshal renders the MessageModel as the canonical JSON document.
func Marshal(model *ir.MessageModel) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(model); err != nil {
		return nil, err
	}
	// json.Encoder.Encode appends a trailing newline after the top-level
	// value; nothing else needs trimming because SetIndent never emits
	// trailing whitespace on a line.
	return buf.Bytes(), nil
}
