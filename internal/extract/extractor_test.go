package extract

import (
	"strings"
	"testing"
)

func TestDetectSignals(t *testing.T) {
	e := New(nil)
	tests := []struct {
		name string
		text string
		want func(Signals) bool
	}{
		{"request", "how do I stream a large file?", func(s Signals) bool { return s.Request }},
		{"repetition", "I keep getting this same issue", func(s Signals) bool { return s.Repetition }},
		{"success", "that worked, thanks", func(s Signals) bool { return s.Success }},
		{"failure", "the build is broken", func(s Signals) bool { return s.Failure }},
		{"learning", "today I learned about io.Pipe", func(s Signals) bool { return s.Learning }},
		{"best practice", "always close the response body", func(s Signals) bool { return s.BestPractice }},
		{"emphasis", "important: the cache is shared", func(s Signals) bool { return s.Emphasis }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.want(e.DetectSignals(tt.text)) {
				t.Errorf("signal not detected in %q", tt.text)
			}
		})
	}

	none := e.DetectSignals("the sky is blue")
	if none.Request || none.Repetition || none.Success || none.Failure {
		t.Error("expected no signals in neutral text")
	}
}

func TestImportance(t *testing.T) {
	e := New(nil)

	if got := e.Importance("the sky is blue"); got != 0 {
		t.Errorf("neutral text scored %d", got)
	}
	// Repetition (3) + emphasis (2) + success (2).
	got := e.Importance("again the same issue! important: that worked only after a retry")
	if got < 5 {
		t.Errorf("expected a high score, got %d", got)
	}
	// Score is capped.
	loaded := "again! important! that worked! error! today i learned! always! critical!"
	if got := e.Importance(loaded); got > 10 {
		t.Errorf("score exceeded cap: %d", got)
	}
}

func TestDetectEmphasis(t *testing.T) {
	e := New(nil)

	got := e.DetectEmphasis("NEVER commit the lockfile! use *rebase* for this")
	set := map[string]bool{}
	for _, w := range got {
		set[w] = true
	}
	for _, want := range []string{"never", "lockfile", "rebase"} {
		if !set[want] {
			t.Errorf("expected %q emphasized, got %v", want, got)
		}
	}
}

func TestDetectEmphasisSkipsAcronyms(t *testing.T) {
	e := New(nil)
	for _, w := range e.DetectEmphasis("the API returns JSON over HTTP") {
		if w == "api" || w == "json" || w == "http" {
			t.Errorf("common acronym %q treated as emphasis", w)
		}
	}
}

func TestDetectEmphasisRepeatedWords(t *testing.T) {
	e := New(nil)
	got := e.DetectEmphasis("the cache, the cache is stale")
	found := false
	for _, w := range got {
		if w == "cache" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected repeated word detected, got %v", got)
	}
}

func TestSmartTruncate(t *testing.T) {
	if got := smartTruncate("short", 500); got != "short" {
		t.Errorf("short text modified: %q", got)
	}

	long := strings.Repeat("word ", 80) + ". " + strings.Repeat("tail ", 80)
	got := smartTruncate(long, 420)
	if len(got) > 425 {
		t.Errorf("truncated text too long: %d", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix: %q", got[len(got)-10:])
	}
	if strings.Contains(got, "tail") && strings.Count(got, "tail") > 5 {
		t.Error("expected cut near the sentence break")
	}
}

func TestTags(t *testing.T) {
	got := Tags("the docker build fails when the postgres container starts")
	set := map[string]bool{}
	for _, tag := range got {
		set[tag] = true
	}
	if !set["docker"] || !set["database"] {
		t.Errorf("expected docker and database tags, got %v", got)
	}
	if len(got) > 5 {
		t.Errorf("tag limit exceeded: %v", got)
	}
	if tags := Tags("nothing relevant here"); len(tags) != 0 {
		t.Errorf("expected no tags, got %v", tags)
	}
}

func TestExtractAllOrdersByImportance(t *testing.T) {
	e := New(nil)
	text := "I keep getting the same issue: the docker build fails on arm runners. " +
		"That worked, we fixed it by pinning the base image digest."

	got := e.ExtractAll(text)
	if len(got) == 0 {
		t.Fatal("expected candidates")
	}
	if got[0].Kind != CandidateForgotten {
		t.Errorf("expected the repeated issue ranked first, got %s", got[0].Kind)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Importance > got[i-1].Importance {
			t.Fatal("candidates not sorted by importance")
		}
	}
}

func TestExtractSkipsGarbage(t *testing.T) {
	e := New(nil)
	got := e.ExtractAll(`please parse {"id": "msg_01x", "role": "assistant"} for me`)
	for _, c := range got {
		if c.Kind == CandidateNeed {
			t.Errorf("raw payload extracted as a need: %+v", c)
		}
	}
}

func TestExtractErrorWithResolution(t *testing.T) {
	e := New(nil)
	text := "error: connection refused on port 5432.\nTo fix this you need to start the postgres container first."

	got := e.ExtractAll(text)
	var found *Candidate
	for i := range got {
		if got[i].Kind == CandidateError {
			found = &got[i]
			break
		}
	}
	if found == nil {
		t.Fatal("expected an error candidate")
	}
	if !strings.Contains(found.ErrorMessage, "connection refused") {
		t.Errorf("unexpected error message %q", found.ErrorMessage)
	}
	if found.Resolution == "" {
		t.Error("expected a resolution")
	}
}

func TestExtractAntipattern(t *testing.T) {
	e := New(nil)
	text := "Never store credentials in the repository because anyone with read access can see them. Use a secret manager instead."

	got := e.ExtractAll(text)
	var found *Candidate
	for i := range got {
		if got[i].Kind == CandidateAnti {
			found = &got[i]
			break
		}
	}
	if found == nil {
		t.Fatal("expected an antipattern candidate")
	}
	if found.Reason == "" || found.Reason == "Not recommended" {
		t.Errorf("expected an extracted reason, got %q", found.Reason)
	}
}
