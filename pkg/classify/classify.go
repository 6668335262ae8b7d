// Package classify maps free text to a mood using an ordered keyword table.
// It is the fallback used whenever no remote inference result is available.
package classify

import (
	"strings"

	"tableflip.dev/mood/pkg/mood"
)

// Rule maps any of its keywords to a label and score. Keywords are matched as
// case-insensitive substrings.
type Rule struct {
	Keywords []string `json:"keywords"`
	Label    string   `json:"label"`
	Score    int      `json:"score"`
}

// Order matters: earlier rules shadow later ones for text that matches both.
var defaultRules = []Rule{
	{Keywords: []string{"sad", "tired", "upset"}, Label: "sad", Score: 45},
	{Keywords: []string{"angry", "mad"}, Label: "angry", Score: 35},
	{Keywords: []string{"happy", "great", "good"}, Label: "happy", Score: 85},
	{Keywords: []string{"anxious", "worried"}, Label: "anxious", Score: 55},
	{Keywords: []string{"relax", "calm"}, Label: "calm", Score: 80},
}

// Classifier evaluates a rule table. The zero value uses the default table.
type Classifier struct {
	rules []Rule
}

// New returns a Classifier over a copy of rules.
func New(rules []Rule) *Classifier {
	return &Classifier{rules: cloneRules(rules)}
}

// Classify returns the label and score of the first matching rule, or the
// neutral fallback.
func (c *Classifier) Classify(text string) (string, int) {
	rules := defaultRules
	if c != nil && c.rules != nil {
		rules = c.rules
	}
	lower := strings.ToLower(text)
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
				return r.Label, r.Score
			}
		}
	}
	return mood.NeutralLabel, mood.NeutralScore
}

// Classify runs the default table.
func Classify(text string) (string, int) {
	var c *Classifier
	return c.Classify(text)
}

// Rules returns a copy of the default table in priority order.
func Rules() []Rule {
	return cloneRules(defaultRules)
}

// DefaultScore returns the table score for a known label and the neutral
// score otherwise.
func DefaultScore(label string) int {
	l := mood.NormalizeLabel(label)
	for _, r := range defaultRules {
		if r.Label == l {
			return r.Score
		}
	}
	return mood.NeutralScore
}

func cloneRules(rules []Rule) []Rule {
	if rules == nil {
		return nil
	}
	out := make([]Rule, len(rules))
	for i, r := range rules {
		r.Keywords = append([]string(nil), r.Keywords...)
		out[i] = r
	}
	return out
}
