package extract

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/memberberries/berry/internal/gravity"
	"github.com/memberberries/berry/internal/store"
)

// DefaultTranscriptTail is how many trailing messages of a transcript are
// analyzed.
const DefaultTranscriptTail = 5

// Concentrator extracts memories from conversations and stores them,
// auto-pinning credentials and auto-attaching to matching task clusters.
type Concentrator struct {
	store  *store.Store
	engine *gravity.Engine
	ex     *Extractor
}

// NewConcentrator wires the extractor to a store and its gravity engine.
func NewConcentrator(s *store.Store) *Concentrator {
	return &Concentrator{
		store:  s,
		engine: gravity.New(s),
		ex:     New(s),
	}
}

// ProcessText learns from the text, extracts candidates, and stores them.
func (c *Concentrator) ProcessText(text string) ([]Candidate, error) {
	c.ex.LearnFromText(text)
	stored, err := c.storeCandidates(c.ex.ExtractAll(text))
	if err != nil {
		return stored, err
	}
	if len(stored) > 0 {
		c.recordEffective(text)
	}
	// Signal updates are batched in memory; flush them once.
	return stored, c.store.Persist()
}

// ProcessTranscript reads a JSONL transcript, analyzes its last tail
// messages, and stores what it finds. A missing or unreadable transcript
// yields no memories, not an error.
func (c *Concentrator) ProcessTranscript(path string, tail int) ([]Candidate, error) {
	if tail <= 0 {
		tail = DefaultTranscriptTail
	}
	messages, err := readTranscript(path)
	if err != nil {
		log.Warn("transcript unreadable", "path", path, "err", err)
		return nil, nil
	}
	if len(messages) > tail {
		messages = messages[len(messages)-tail:]
	}
	text := strings.Join(messages, "\n\n")
	if text == "" {
		return nil, nil
	}
	return c.ProcessText(text)
}

// readTranscript extracts per-message text from a JSONL file. Message shapes
// vary: content may be a string, a list of text blocks, or absent in favor
// of a bare text field.
func readTranscript(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var messages []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var msg map[string]any
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			continue
		}
		if text := messageText(msg); text != "" {
			messages = append(messages, text)
		}
	}
	return messages, sc.Err()
}

func messageText(msg map[string]any) string {
	switch content := msg["content"].(type) {
	case string:
		return content
	case []any:
		var parts []string
		for _, item := range content {
			switch block := item.(type) {
			case string:
				parts = append(parts, block)
			case map[string]any:
				if t, ok := block["text"].(string); ok {
					parts = append(parts, t)
				}
			}
		}
		return strings.Join(parts, "\n")
	}
	if t, ok := msg["text"].(string); ok {
		return t
	}
	if m, ok := msg["message"]; ok {
		return fmt.Sprint(m)
	}
	return ""
}

// storeCandidates writes each candidate into the store under its kind.
// Needs and repeats land as placeholder solutions so searches surface them
// until a real resolution replaces the text.
func (c *Concentrator) storeCandidates(cands []Candidate) ([]Candidate, error) {
	var stored []Candidate
	for _, cand := range cands {
		pinCheck := ""
		switch cand.Kind {
		case CandidateSolution:
			pinCheck = cand.Problem + " " + cand.Solution
		case CandidateError:
			pinCheck = cand.ErrorMessage + " " + cand.Resolution
		case CandidateConfirmed:
			pinCheck = cand.Solution
		}
		if pinCheck != "" {
			hint := cand.Problem
			if hint == "" {
				hint = string(cand.Kind)
			}
			if len(hint) > 50 {
				hint = hint[:50]
			}
			pin, err := c.store.AutoPinIfNeeded(pinCheck, hint)
			if err != nil {
				return stored, err
			}
			cand.AutoPinned = pin != nil
		}

		switch cand.Kind {
		case CandidateSolution:
			rec, err := c.store.AddSolution(cand.Problem, cand.Solution, "", cand.Tags)
			if err != nil {
				return stored, err
			}
			cand.StoredID = rec.ID
			if _, err := c.engine.AutoAttach(rec.ID, cand.Tags, cand.Problem+" "+cand.Solution); err != nil {
				log.Warn("auto-attach failed", "id", rec.ID, "err", err)
			}
		case CandidateError:
			rec, err := c.store.AddError(cand.ErrorMessage, cand.Resolution, "Auto-extracted from conversation", cand.Tags)
			if err != nil {
				return stored, err
			}
			cand.StoredID = rec.ID
		case CandidateAnti:
			rec, err := c.store.AddAntipattern(cand.Pattern, cand.Reason, cand.Alternative, cand.Tags)
			if err != nil {
				return stored, err
			}
			cand.StoredID = rec.ID
		case CandidateNeed:
			rec, err := c.store.AddSolution(
				"User need: "+cand.Problem,
				"(Captured from conversation - pending resolution)",
				"", append(cand.Tags, "user-need"))
			if err != nil {
				return stored, err
			}
			cand.StoredID = rec.ID
		case CandidateForgotten:
			rec, err := c.store.AddSolution(
				"Repeated issue: "+cand.Problem,
				"(Auto-captured - user had to repeat this)",
				"", append(cand.Tags, "repeated", "high-priority"))
			if err != nil {
				return stored, err
			}
			cand.StoredID = rec.ID
		case CandidateConfirmed:
			rec, err := c.store.AddSolution(
				"Confirmed working solution",
				cand.Solution,
				"", append(cand.Tags, "confirmed", "working"))
			if err != nil {
				return stored, err
			}
			cand.StoredID = rec.ID
		default:
			continue
		}
		stored = append(stored, cand)
	}
	return stored, nil
}

// recordEffective reinforces up to five emphasized words once extraction
// actually produced memories.
func (c *Concentrator) recordEffective(text string) {
	emphasized := c.ex.DetectEmphasis(text)
	if len(emphasized) > 5 {
		emphasized = emphasized[:5]
	}
	for _, word := range emphasized {
		c.store.RecordEffectiveSignal(word)
	}
}
