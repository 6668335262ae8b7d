package printers

import (
	"encoding/json"
	"io"

	"github.com/fatih/color"
)

// JSON writes v as indented JSON, defaulting to color.Output.
func JSON(w io.Writer, v any) error {
	if w == nil {
		w = color.Output
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
