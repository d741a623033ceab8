// Package verdict models the outcome of a judgment as a closed set of
// variants. The pipe-delimited wire form exists only at the consensus
// boundary, where replicas compare results byte for byte.
package verdict

import "strings"

type Outcome string

const (
	OutcomeApproved Outcome = "APPROVED"
	OutcomeFailed   Outcome = "FAILED"
	OutcomeRevision Outcome = "REVISION"
)

const separator = "|"

// Verdict is implemented only by Approved, Failed and Revision.
type Verdict interface {
	Outcome() Outcome
	Detail() string
	sealed()
}

type Approved struct{ Feedback string }

type Failed struct{ Feedback string }

type Revision struct{ Feedback string }

func (Approved) Outcome() Outcome { return OutcomeApproved }
func (Failed) Outcome() Outcome   { return OutcomeFailed }
func (Revision) Outcome() Outcome { return OutcomeRevision }

func (v Approved) Detail() string { return v.Feedback }
func (v Failed) Detail() string   { return v.Feedback }
func (v Revision) Detail() string { return v.Feedback }

func (Approved) sealed() {}
func (Failed) sealed()   {}
func (Revision) sealed() {}

// Encode renders the wire form "OUTCOME|detail".
func Encode(v Verdict) string {
	return string(v.Outcome()) + separator + v.Detail()
}

// Decode parses the wire form. A string without a recognised outcome prefix
// decodes to Revision carrying the whole string, with ok=false so callers can
// decide whether to accept the lenient reading.
func Decode(raw string) (v Verdict, ok bool) {
	for _, outcome := range []Outcome{OutcomeApproved, OutcomeFailed, OutcomeRevision} {
		prefix := string(outcome) + separator
		if strings.HasPrefix(raw, prefix) {
			return New(outcome, raw[len(prefix):]), true
		}
	}
	return Revision{Feedback: raw}, false
}

// New builds the variant for outcome; unknown outcomes become Revision.
func New(outcome Outcome, detail string) Verdict {
	switch outcome {
	case OutcomeApproved:
		return Approved{Feedback: detail}
	case OutcomeFailed:
		return Failed{Feedback: detail}
	default:
		return Revision{Feedback: detail}
	}
}
