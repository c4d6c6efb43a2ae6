package dialog

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/johns/vibe-reflect/internal/timeline"
)

const (
	minLearningRunes = 10
	contentRunes     = 200
	maxReferences    = 5
)

// RealizationKeywords raise a long answer to high confidence.
var RealizationKeywords = []string{"learned", "understand", "mastered", "discovered", "realized"}

var (
	firstSentenceRe = regexp.MustCompile(`(?s)^(.*?\S[.!?])(?:\s|$)`)
	fileMentionRe   = regexp.MustCompile(`[A-Za-z0-9_][A-Za-z0-9_./-]*\.[A-Za-z0-9]{1,8}\b`)
)

// ExtractLearnings derives learnings from answered questions in order.
// Answers shorter than ten characters are ignored.
func ExtractLearnings(c *Context, events []timeline.Event) []Learning {
	if c == nil {
		return nil
	}
	var out []Learning
	for _, q := range c.Questions {
		answer := strings.TrimSpace(c.Answers[q.ID])
		if utf8.RuneCountInString(answer) < minLearningRunes {
			continue
		}
		out = append(out, Learning{
			Category:   q.Category,
			Content:    LearningContent(answer),
			Confidence: ScoreConfidence(answer),
			References: References(answer, events),
		})
	}
	return out
}

// LearningContent is the first sentence, or a 200-character prefix.
func LearningContent(answer string) string {
	if m := firstSentenceRe.FindStringSubmatch(answer); m != nil {
		return strings.TrimSpace(m[1])
	}
	runes := []rune(answer)
	if len(runes) > contentRunes {
		return string(runes[:contentRunes]) + "..."
	}
	return answer
}

// ScoreConfidence rates an answer by length and realization keywords.
func ScoreConfidence(answer string) Confidence {
	n := utf8.RuneCountInString(answer)
	lower := strings.ToLower(answer)
	keyword := false
	for _, k := range RealizationKeywords {
		if strings.Contains(lower, k) {
			keyword = true
			break
		}
	}
	switch {
	case n > 100 && keyword:
		return ConfidenceHigh
	case n > 50:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// References cites memory events whose modified files the answer mentions.
// Without a match the first event is cited.
func References(answer string, events []timeline.Event) []string {
	mentions := fileMentionRe.FindAllString(answer, -1)

	var refs []string
	seen := make(map[string]bool)
	if len(mentions) > 0 {
		for _, e := range events {
			if e.Source != timeline.SourceMemory || e.Observation == nil {
				continue
			}
			if !mentionsAny(e.Observation.FilesModified, mentions) {
				continue
			}
			ref := fmt.Sprintf("observation#%d", e.Observation.ID)
			if seen[ref] {
				continue
			}
			seen[ref] = true
			refs = append(refs, ref)
			if len(refs) == maxReferences {
				return refs
			}
		}
	}
	if len(refs) == 0 && len(events) > 0 {
		refs = []string{events[0].ID}
	}
	return refs
}

func mentionsAny(files, mentions []string) bool {
	for _, f := range files {
		for _, m := range mentions {
			if f == m || strings.HasSuffix(f, "/"+m) {
				return true
			}
		}
	}
	return false
}
