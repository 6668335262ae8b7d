// Package say records how the user feels from free text.
package say

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/mood/pkg/app"
	"tableflip.dev/mood/pkg/printers"
)

// CrisisNotice is shown when the companion flags a crisis.
const CrisisNotice = "If you are in danger, please contact local emergency services or a crisis line now."

type Say struct {
	App  *app.Service
	Text string
	// Local skips the remote classifier.
	Local bool
	JSON  bool
	Out   io.Writer
}

func (n *Say) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not say, no store")
	}
	text := strings.TrimSpace(n.Text)
	if text == "" {
		return errors.New("nothing to say")
	}

	var reply app.ChatReply
	if n.Local || n.App.Inferrer == nil {
		rec, err := n.App.RecordText(ctx, text)
		if err != nil {
			return err
		}
		reply.Record = rec
	} else {
		var err error
		reply, err = n.App.Chat(ctx, text, nil)
		if err != nil {
			return err
		}
	}

	if n.JSON {
		return printers.JSON(n.Out, reply)
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}
	if reply.Reply != "" {
		_, _ = fmt.Fprintln(out, reply.Reply)
	}
	if reply.Crisis {
		_, _ = color.New(color.FgHiRed, color.Bold).Fprintln(out, CrisisNotice)
	}
	if reply.ServiceUnavailable {
		_, _ = color.New(color.Faint).Fprintln(out, "Companion unavailable, kept the local reading.")
	}
	pp := printers.PrettyPrint{Out: out, ShowSource: true}
	pp.Recorded(reply.Record)
	return nil
}
