package key

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/mood/pkg/classify"
)

func TestKeyTable(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	var buf bytes.Buffer
	k := &Key{Out: &buf}
	if err := k.Do(context.Background()); err != nil {
		t.Fatalf("Do: %v", err)
	}
	for _, want := range []string{"Keyword rules", "relax, calm", "(no match)"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("expected %q in output:\n%s", want, buf.String())
		}
	}
}

func TestKeyJSON(t *testing.T) {
	var buf bytes.Buffer
	k := &Key{JSON: true, Out: &buf}
	if err := k.Do(context.Background()); err != nil {
		t.Fatalf("Do: %v", err)
	}
	var rules []classify.Rule
	if err := json.Unmarshal(buf.Bytes(), &rules); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if len(rules) != len(classify.Rules()) || rules[0].Label != "sad" {
		t.Fatalf("unexpected rules %+v", rules)
	}
}
