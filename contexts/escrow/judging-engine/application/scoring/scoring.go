// Package scoring holds the keyword-overlap heuristic that judges a delivery
// against its brief. It is deterministic given its evidence; all
// non-determinism comes from the optional fetcher.
package scoring

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	domainerrors "jobescrow/contexts/escrow/judging-engine/domain/errors"
	"jobescrow/contexts/escrow/judging-engine/domain/verdict"
	"jobescrow/contexts/escrow/judging-engine/ports"
)

const (
	NoteFetched = "Used fetched webpage text."
	NoteURLOnly = "Web fetch not available; judged using URL only."

	FeedbackEmpty    = "Empty/invalid submission."
	FeedbackMatch    = "Basic match with brief keywords."
	FeedbackNoSignal = "Not enough signal to verify brief match."

	// EvidenceSeparator joins fetched evidence and the delivery description.
	EvidenceSeparator = "\n---\n"

	MinEvidenceRunes = 10
	MinKeywordRunes  = 5
	// MaxBriefKeywords caps how much of a brief is scored; later keywords
	// are ignored.
	MaxBriefKeywords = 12
)

type Input struct {
	Brief         string
	SubmissionURL string
	Description   string
}

// Score runs one evaluation. A nil fetcher selects the URL-only path; a
// fetcher that fails aborts the evaluation instead of degrading.
func Score(ctx context.Context, in Input, fetcher ports.Fetcher) (verdict.Verdict, error) {
	evidence, note, err := gatherEvidence(ctx, in.SubmissionURL, fetcher)
	if err != nil {
		return nil, err
	}
	combined := evidence + EvidenceSeparator + in.Description

	if utf8.RuneCountInString(strings.TrimSpace(combined)) < MinEvidenceRunes {
		return verdict.Failed{Feedback: withNote(FeedbackEmpty, note)}, nil
	}
	if CountHits(BriefKeywords(in.Brief), combined) >= 1 {
		return verdict.Approved{Feedback: withNote(FeedbackMatch, note)}, nil
	}
	return verdict.Revision{Feedback: withNote(FeedbackNoSignal, note)}, nil
}

// Evaluation wraps Score as a consensus closure over a fixed input.
func Evaluation(in Input, fetcher ports.Fetcher) ports.Evaluation {
	return func(ctx context.Context) (string, error) {
		v, err := Score(ctx, in, fetcher)
		if err != nil {
			return "", err
		}
		return verdict.Encode(v), nil
	}
}

// BriefKeywords lowercases the brief's whitespace-separated words, keeps those
// of at least MinKeywordRunes runes and returns the first MaxBriefKeywords.
func BriefKeywords(brief string) []string {
	keywords := make([]string, 0, MaxBriefKeywords)
	for _, word := range strings.Fields(brief) {
		if utf8.RuneCountInString(word) < MinKeywordRunes {
			continue
		}
		keywords = append(keywords, strings.ToLower(word))
		if len(keywords) == MaxBriefKeywords {
			break
		}
	}
	return keywords
}

// CountHits counts keywords occurring as substrings of the lowercased evidence.
func CountHits(keywords []string, evidence string) int {
	lower := strings.ToLower(evidence)
	hits := 0
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			hits++
		}
	}
	return hits
}

func gatherEvidence(ctx context.Context, url string, fetcher ports.Fetcher) (string, string, error) {
	if fetcher == nil {
		return url, NoteURLOnly, nil
	}
	text, err := fetcher.FetchText(ctx, url)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", domainerrors.ErrFetchFailed, err)
	}
	return text, NoteFetched, nil
}

func withNote(feedback string, note string) string {
	return feedback + " " + note
}
