package classifier

import (
	"strings"

	"github.com/spec-kit/ticket-agent/internal/domain"
)

// labelTokens holds each label broken into lowercase words so that replies
// like "Feature Request: needs a dropdown" still resolve.
var labelTokens = map[domain.Label][]string{
	domain.LabelTask:           {"task"},
	domain.LabelBug:            {"bug"},
	domain.LabelIncident:       {"incident"},
	domain.LabelFeatureRequest: {"feature", "request"},
	domain.LabelQuestion:       {"question"},
}

// keywordTables drive the heuristic scan. Order matters: the first table
// with a containment hit wins, so bug terms shadow everything below them.
var keywordTables = []struct {
	label    domain.Label
	keywords []string
}{
	{domain.LabelBug, []string{"bug", "crash", "exception", "error", "broken", "can't log in", "cannot log in", "login fail"}},
	{domain.LabelIncident, []string{"outage", "down", "unavailable", "timeout", "incident"}},
	{domain.LabelFeatureRequest, []string{"feature", "enhancement", "improve"}},
	{domain.LabelQuestion, []string{"how", "why", "what", "question", "help"}},
}

// Normalize maps a raw model reply onto the label set. It never fails: when
// the reply carries no usable signal it falls back to Heuristic over the
// original user text, which itself bottoms out at LabelTask.
func Normalize(reply, original string) domain.Label {
	trimmed := strings.TrimSpace(reply)
	if trimmed == "" {
		return Heuristic(original)
	}

	candidate := firstLine(trimmed)
	if label, ok := matchLabel(candidate); ok {
		return label
	}

	// The user's own words are better evidence than a noisy model reply.
	if label := Heuristic(original); label != domain.LabelTask {
		return label
	}

	if label, ok := scanKeywords(reply); ok {
		return label
	}

	return Heuristic(original)
}

// Heuristic scans text against the fixed keyword tables in priority order.
// Empty or unmatched text yields LabelTask.
func Heuristic(text string) domain.Label {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return domain.LabelTask
	}
	if label, ok := scanKeywords(lowered); ok {
		return label
	}
	return domain.LabelTask
}

func scanKeywords(text string) (domain.Label, bool) {
	lowered := strings.ToLower(text)
	for _, table := range keywordTables {
		for _, keyword := range table.keywords {
			if strings.Contains(lowered, keyword) {
				return table.label, true
			}
		}
	}
	return domain.LabelTask, false
}

// matchLabel resolves a candidate line to a label by exact token equality or
// by the candidate's leading tokens equaling a label's tokens.
func matchLabel(candidate string) (domain.Label, bool) {
	tokens := tokenize(candidate)
	if len(tokens) == 0 {
		return domain.LabelTask, false
	}
	for _, label := range domain.AllLabels {
		want := labelTokens[label]
		// Collapsed form: "featurerequest" as a single leading token.
		if tokens[0] == strings.Join(want, "") {
			return label, true
		}
		if len(tokens) >= len(want) && equalTokens(tokens[:len(want)], want) {
			return label, true
		}
	}
	return domain.LabelTask, false
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// tokenize lowercases and splits on anything that is not a letter, so
// "FeatureRequest", "Feature Request:" and "feature-request" all agree.
func tokenize(text string) []string {
	lowered := strings.ToLower(text)
	return strings.FieldsFunc(lowered, func(r rune) bool {
		return r < 'a' || r > 'z'
	})
}

func equalTokens(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
