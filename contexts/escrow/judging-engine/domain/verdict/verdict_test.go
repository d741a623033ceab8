package verdict

import "testing"

func TestDecodeRecognisedOutcomes(t *testing.T) {
	cases := map[string]Verdict{
		"APPROVED|Basic match": Approved{Feedback: "Basic match"},
		"FAILED|Empty":         Failed{Feedback: "Empty"},
		"REVISION|Not enough":  Revision{Feedback: "Not enough"},
		"APPROVED|a|b":         Approved{Feedback: "a|b"},
		"FAILED|":              Failed{Feedback: ""},
	}
	for raw, want := range cases {
		got, ok := Decode(raw)
		if !ok {
			t.Fatalf("expected %q to decode", raw)
		}
		if got != want {
			t.Fatalf("decode %q: expected %#v, got %#v", raw, want, got)
		}
		if Encode(got) != raw {
			t.Fatalf("expected %q to re-encode unchanged, got %q", raw, Encode(got))
		}
	}
}

func TestDecodeUnprefixedIsLenientRevision(t *testing.T) {
	for _, raw := range []string{"garbage", "approved|lowercase", "APPROVED", ""} {
		got, ok := Decode(raw)
		if ok {
			t.Fatalf("expected %q to be flagged malformed", raw)
		}
		if got.Outcome() != OutcomeRevision || got.Detail() != raw {
			t.Fatalf("expected revision carrying %q, got %#v", raw, got)
		}
	}
}

func TestNewUnknownOutcomeIsRevision(t *testing.T) {
	if got := New(Outcome("OPEN"), "x"); got.Outcome() != OutcomeRevision {
		t.Fatalf("expected revision, got %s", got.Outcome())
	}
}
