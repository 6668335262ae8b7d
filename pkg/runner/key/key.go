// Package key prints the keyword rules the local classifier applies.
package key

import (
	"context"
	"io"

	"tableflip.dev/mood/pkg/classify"
	"tableflip.dev/mood/pkg/printers"
)

// Key prints the classifier rules in priority order.
type Key struct {
	JSON bool
	Out  io.Writer
}

func (k *Key) Do(_ context.Context) error {
	rules := classify.Rules()
	if k.JSON {
		return printers.JSON(k.Out, rules)
	}
	pp := printers.PrettyPrint{Out: k.Out}
	pp.NewLine()
	pp.Rules(rules)
	return nil
}
