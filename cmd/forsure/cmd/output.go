package cmd

import (
	"encoding/json"
	"io"

	fserr "github.com/msto63/forsure/foundation/core/error"
)

// writeJSON writes v as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fserr.Wrap(err, "failed to encode JSON").
			WithCode(fserr.CodeInternal)
	}
	return nil
}
