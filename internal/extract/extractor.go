// Package extract mines conversation text for memories worth keeping:
// confirmed solutions, repeated complaints, error resolutions, antipatterns.
// Extraction is heuristic and adapts to the user's own signal words over
// time.
package extract

import (
	"regexp"
	"sort"
	"strings"
)

// Learner is the adaptive-signal surface the extractor feeds and reads.
type Learner interface {
	LearnSignal(word, kind string, weight int)
	SignalScore(word string) int
	RecordEffectiveSignal(word string)
}

// Candidate is one extracted memory before storage. Kind decides which
// fields are populated.
type Candidate struct {
	Kind         CandidateKind
	Problem      string
	Solution     string
	ErrorMessage string
	Resolution   string
	Pattern      string
	Reason       string
	Alternative  string
	Tags         []string
	Importance   int
	AutoPinned   bool
	StoredID     string
}

type CandidateKind string

const (
	CandidateSolution  CandidateKind = "solution"
	CandidateError     CandidateKind = "error"
	CandidateAnti      CandidateKind = "antipattern"
	CandidateNeed      CandidateKind = "user_need"
	CandidateForgotten CandidateKind = "forgotten_item"
	CandidateConfirmed CandidateKind = "confirmed_solution"
)

// Semantic signal vocabularies. Presence of any phrase marks the signal.
var (
	requestSignals = []string{
		"please", "help me", "how do i", "how can i", "can you", "could you",
		"i need", "i want", "trying to", "looking for", "wondering how",
	}
	repetitionSignals = []string{
		"again", "still", "keep getting", "keeps happening", "every time",
		"always forget", "remind me", "one more time", "as i mentioned",
		"like before", "same issue", "recurring",
	}
	successSignals = []string{
		"that worked", "works now", "fixed it", "solved", "perfect",
		"thanks", "thank you", "got it", "makes sense", "understood",
		"exactly what i needed", "great",
	}
	failureSignals = []string{
		"doesn't work", "not working", "didn't work", "broke", "broken",
		"wrong", "failed", "failing", "error", "issue", "problem",
		"stuck", "confused",
	}
	learningSignals = []string{
		"i didn't know", "til", "today i learned", "good to know",
		"interesting", "never knew", "new to me", "discovered",
		"that's useful", "noted",
	}
	bestPracticeSignals = []string{
		"always", "never", "should", "shouldn't", "must", "mustn't",
		"avoid", "recommended", "best practice", "convention",
		"prefer", "important to", "make sure", "remember to",
	}
	emphasisSignals = []string{
		"important", "critical", "crucial", "don't forget", "remember",
		"note that", "key thing", "essential", "vital", "must remember",
	}
)

// Extraction patterns.
var (
	solutionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?im)(?:the solution is|to fix this|the fix is|you can solve this by|here's how to|the way to|to resolve this)(.*?)(?:\.|$)`),
		regexp.MustCompile(`(?im)(?:solved by|fixed by|resolved by|the answer is)(.*?)(?:\.|$)`),
		regexp.MustCompile(`(?im)(?:you should|you need to|make sure to|remember to)(.*?)(?:\.|$)`),
	}
	errorPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:error|exception|failed|failure)[\s:]+([^\n]+)`),
		regexp.MustCompile(`(?i)(?:ModuleNotFoundError|ImportError|TypeError|ValueError|KeyError|AttributeError|RuntimeError)[\s:]+([^\n]+)`),
	}
	antipatternPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:don't|do not|avoid|never|shouldn't|should not)\s+([^.]+?)(?:\s+because|\s+since|\s+as\s+it|\.)`),
		regexp.MustCompile(`(?i)(?:instead of|rather than)\s+([^,]+),?\s+(?:use|try|consider)`),
	}
	needPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:please|help me|can you|could you)\s+([^.?!]+)[.?!]?`),
		regexp.MustCompile(`(?i)(?:i need|i want|trying to)\s+([^.?!]+)[.?!]?`),
		regexp.MustCompile(`(?i)(?:how do i|how can i)\s+([^.?!]+)\??`),
	}
	forgottenPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:again|still|keep getting|keeps happening)\s*[,:]?\s*([^.!?]+)[.!?]?`),
		regexp.MustCompile(`(?i)(?:same|recurring)\s+(?:issue|problem|error)[:\s]+([^.!?]+)[.!?]?`),
		regexp.MustCompile(`(?i)(?:as i mentioned|like before)[,:]?\s*([^.!?]+)[.!?]?`),
	}
	confirmedPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:that worked|works now|fixed it|solved)[.!]?\s*([^.!?]*(?:by|with|using)[^.!?]+)[.!?]?`),
		regexp.MustCompile(`(?i)(?:perfect|exactly what i needed)[.!]?\s*([^.!?]+)[.!?]?`),
	}

	problemRe     = regexp.MustCompile(`(?i)(?:how (?:do|can|to)|what|why|when)[^?]*\?`)
	needContextRe = regexp.MustCompile(`(?i)(?:i need to|trying to|want to|need help with)([^.]+)`)
	resolutionRe  = regexp.MustCompile(`(?i)(?:to fix|solution|resolve|try|use|change|update|install)([^.]+\.)`)
	reasonRe      = regexp.MustCompile(`(?i)(?:because|since|as it|this causes|leads to|results in)([^.]+)`)
	alternativeRe = regexp.MustCompile(`(?i)(?:instead|use|try|prefer|better to|should)([^.]+)`)
)

// Keyword buckets for auto-tagging.
var techKeywords = map[string][]string{
	"python":      {"python", "pip", "pytest", "django", "flask", "fastapi", "asyncio"},
	"javascript":  {"javascript", "js", "node", "npm", "yarn", "react", "vue", "angular"},
	"typescript":  {"typescript", "ts", "tsx"},
	"go":          {"golang", "goroutine", "go mod", "go test"},
	"database":    {"sql", "postgres", "mysql", "mongodb", "redis", "database", "query"},
	"api":         {"api", "rest", "graphql", "endpoint", "request", "response"},
	"auth":        {"auth", "authentication", "authorization", "jwt", "oauth", "token", "password"},
	"testing":     {"test", "testing", "unittest", "pytest", "jest", "mock"},
	"docker":      {"docker", "container", "dockerfile", "compose"},
	"git":         {"git", "commit", "branch", "merge", "push", "pull"},
	"security":    {"security", "vulnerability", "xss", "csrf", "injection", "sanitize"},
	"performance": {"performance", "optimize", "cache", "speed", "slow", "fast"},
	"error":       {"error", "exception", "bug", "fix", "debug", "issue"},
}

// Fragments of raw payloads and markup that should never become memory text.
var garbageMarkers = []string{
	"{'model':", "'type': 'msg'", "'role': 'assistant'",
	`"model":`, `"type": "message"`, `"role": "assistant"`,
	"<", "</", "msg_01", `{"id":`,
}

// Extractor mines candidates from text. A nil learner disables the adaptive
// boost.
type Extractor struct {
	learner Learner
}

// New returns an extractor. learner may be nil.
func New(learner Learner) *Extractor { return &Extractor{learner: learner} }

// Signals reports which semantic signal families are present.
type Signals struct {
	Request      bool
	Repetition   bool
	Success      bool
	Failure      bool
	Learning     bool
	BestPractice bool
	Emphasis     bool
}

func containsAny(textLower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(textLower, p) {
			return true
		}
	}
	return false
}

// DetectSignals scans the text for every signal family.
func (e *Extractor) DetectSignals(text string) Signals {
	lower := strings.ToLower(text)
	return Signals{
		Request:      containsAny(lower, requestSignals),
		Repetition:   containsAny(lower, repetitionSignals),
		Success:      containsAny(lower, successSignals),
		Failure:      containsAny(lower, failureSignals),
		Learning:     containsAny(lower, learningSignals),
		BestPractice: containsAny(lower, bestPracticeSignals),
		Emphasis:     containsAny(lower, emphasisSignals),
	}
}

// Importance scores text 0..10. Repetition outweighs everything: the user
// had to say it twice. Learned signal words add a capped per-word boost.
func (e *Extractor) Importance(text string) int {
	sig := e.DetectSignals(text)
	score := 0
	if sig.Repetition {
		score += 3
	}
	if sig.Emphasis {
		score += 2
	}
	if sig.Success {
		score += 2
	}
	if sig.Failure {
		score++
	}
	if sig.Learning {
		score++
	}
	if sig.BestPractice {
		score++
	}
	if e.learner != nil {
		for _, word := range strings.Fields(strings.ToLower(text)) {
			word = stripNonWord(word)
			if s := e.learner.SignalScore(word); s > 0 {
				if s > 2 {
					s = 2
				}
				score += s
			}
		}
	}
	if score > 10 {
		score = 10
	}
	return score
}

var (
	capsWordRe  = regexp.MustCompile(`\b([A-Z]{3,})\b`)
	exclaimRe   = regexp.MustCompile(`(\w+)!`)
	boldRe      = regexp.MustCompile(`\*\*(\w+)\*\*`)
	italicRe    = regexp.MustCompile(`\*(\w+)\*`)
	underlineRe = regexp.MustCompile(`_(\w+)_`)
	nonWordRe   = regexp.MustCompile(`[^\w]`)
)

var commonAcronyms = map[string]bool{
	"API": true, "URL": true, "HTTP": true, "HTML": true, "CSS": true,
	"SQL": true, "JSON": true, "XML": true, "SDK": true, "CLI": true,
}

func stripNonWord(w string) string { return nonWordRe.ReplaceAllString(w, "") }

// DetectEmphasis finds words the user visibly stressed: ALL CAPS, trailing
// exclamation, markdown emphasis, or repetition within a ten-word span.
// The result is deduplicated in first-seen order.
func (e *Extractor) DetectEmphasis(text string) []string {
	var found []string
	for _, m := range capsWordRe.FindAllStringSubmatch(text, -1) {
		if !commonAcronyms[m[1]] {
			found = append(found, strings.ToLower(m[1]))
		}
	}
	for _, m := range exclaimRe.FindAllStringSubmatch(text, -1) {
		found = append(found, strings.ToLower(m[1]))
	}
	for _, re := range []*regexp.Regexp{boldRe, italicRe, underlineRe} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			found = append(found, strings.ToLower(m[1]))
		}
	}

	words := strings.Fields(strings.ToLower(text))
	lastPos := map[string]int{}
	for i, word := range words {
		if len(word) <= 3 {
			continue
		}
		word = stripNonWord(word)
		if prev, ok := lastPos[word]; ok && i-prev < 10 {
			found = append(found, word)
		}
		lastPos[word] = i
	}

	seen := map[string]bool{}
	out := found[:0]
	for _, w := range found {
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// LearnFromText updates the adaptive model with emphasis and in-message word
// repetition.
func (e *Extractor) LearnFromText(text string) {
	if e.learner == nil {
		return
	}
	for _, word := range e.DetectEmphasis(text) {
		e.learner.LearnSignal(word, "emphasis", 1)
	}
	counts := map[string]int{}
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = stripNonWord(word)
		if len(word) > 4 {
			counts[word]++
		}
	}
	for word, n := range counts {
		if n >= 3 {
			e.learner.LearnSignal(word, "repeated", n/3)
		}
	}
}

// smartTruncate cuts at the last natural break before max, falling back to a
// word boundary, so stored text does not end mid-thought.
func smartTruncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	breaks := []string{". ", "! ", "? ", "; ", ", ", " - ", "\n"}
	best := max
	for _, b := range breaks {
		idx := strings.LastIndex(text[:max], b)
		if idx != -1 && float64(idx) > float64(max)*0.6 {
			best = idx + len(b)
			break
		}
	}
	if best == max {
		if idx := strings.LastIndex(text[:max], " "); float64(idx) > float64(max)*0.6 {
			best = idx
		}
	}
	return strings.TrimSpace(text[:best]) + "..."
}

// Tags derives up to five tech tags from keyword hits.
func Tags(text string) []string {
	lower := strings.ToLower(text)
	var tags []string
	for tag, keywords := range techKeywords {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				tags = append(tags, tag)
				break
			}
		}
	}
	sort.Strings(tags)
	if len(tags) > 5 {
		tags = tags[:5]
	}
	return tags
}

func isGarbage(text string) bool {
	for _, m := range garbageMarkers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// ExtractAll runs every extractor over the text and returns candidates
// sorted by importance, highest first.
func (e *Extractor) ExtractAll(text string) []Candidate {
	var out []Candidate
	out = append(out, e.extractForgotten(text)...)
	out = append(out, e.extractConfirmed(text)...)
	out = append(out, e.extractNeeds(text)...)
	out = append(out, e.extractSolutions(text)...)
	out = append(out, e.extractErrors(text)...)
	out = append(out, e.extractAntipatterns(text)...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Importance > out[j].Importance })
	return out
}

func (e *Extractor) extractNeeds(text string) []Candidate {
	var out []Candidate
	for _, re := range needPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			need := strings.TrimSpace(m[1])
			if len(need) <= 10 || isGarbage(need) {
				continue
			}
			out = append(out, Candidate{
				Kind:       CandidateNeed,
				Problem:    smartTruncate(need, 500),
				Tags:       Tags(need),
				Importance: e.Importance(text),
			})
			if len(out) == 3 {
				return out
			}
		}
	}
	return out
}

func (e *Extractor) extractForgotten(text string) []Candidate {
	var out []Candidate
	for _, re := range forgottenPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			item := strings.TrimSpace(m[1])
			if len(item) <= 10 || isGarbage(item) {
				continue
			}
			out = append(out, Candidate{
				Kind:       CandidateForgotten,
				Problem:    smartTruncate(item, 600),
				Tags:       Tags(item),
				Importance: 10,
			})
			if len(out) == 2 {
				return out
			}
		}
	}
	return out
}

func (e *Extractor) extractConfirmed(text string) []Candidate {
	var out []Candidate
	for _, re := range confirmedPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			sol := strings.TrimSpace(m[1])
			if len(sol) <= 10 {
				continue
			}
			out = append(out, Candidate{
				Kind:       CandidateConfirmed,
				Solution:   smartTruncate(sol, 800),
				Tags:       Tags(sol),
				Importance: 8,
			})
			if len(out) == 2 {
				return out
			}
		}
	}
	return out
}

func (e *Extractor) extractSolutions(text string) []Candidate {
	var out []Candidate
	for _, re := range solutionPatterns {
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			sol := strings.TrimSpace(text[loc[2]:loc[3]])
			if len(sol) <= 20 {
				continue
			}
			ctxStart := loc[0] - 300
			if ctxStart < 0 {
				ctxStart = 0
			}
			context := strings.TrimSpace(text[ctxStart:loc[0]])
			problem := extractProblem(context)
			if problem == "" {
				problem = "General solution"
			}
			out = append(out, Candidate{
				Kind:       CandidateSolution,
				Problem:    smartTruncate(problem, 300),
				Solution:   smartTruncate(sol, 800),
				Tags:       Tags(text[ctxStart:loc[1]]),
				Importance: e.Importance(text),
			})
			if len(out) == 3 {
				return out
			}
		}
	}
	return out
}

func (e *Extractor) extractErrors(text string) []Candidate {
	var out []Candidate
	for _, re := range errorPatterns {
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			errMsg := strings.TrimSpace(text[loc[2]:loc[3]])
			afterEnd := loc[1] + 800
			if afterEnd > len(text) {
				afterEnd = len(text)
			}
			resolution := ""
			if m := resolutionRe.FindString(text[loc[1]:afterEnd]); m != "" {
				resolution = strings.TrimSpace(m)
			}
			if resolution == "" || len(errMsg) <= 10 {
				continue
			}
			out = append(out, Candidate{
				Kind:         CandidateError,
				ErrorMessage: smartTruncate(errMsg, 400),
				Resolution:   smartTruncate(resolution, 800),
				Tags:         Tags(errMsg + " " + resolution),
				Importance:   e.Importance(text),
			})
			if len(out) == 2 {
				return out
			}
		}
	}
	return out
}

func (e *Extractor) extractAntipatterns(text string) []Candidate {
	var out []Candidate
	for _, re := range antipatternPatterns {
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			bad := strings.TrimSpace(text[loc[2]:loc[3]])
			ctxEnd := loc[1] + 500
			if ctxEnd > len(text) {
				ctxEnd = len(text)
			}
			context := text[loc[0]:ctxEnd]

			reason := ""
			if m := reasonRe.FindStringSubmatch(context); m != nil {
				reason = strings.TrimSpace(m[1])
			}
			alternative := ""
			if m := alternativeRe.FindStringSubmatch(context); m != nil {
				alternative = strings.TrimSpace(m[1])
			}
			if len(bad) <= 10 || (reason == "" && alternative == "") {
				continue
			}
			if reason == "" {
				reason = "Not recommended"
			} else {
				reason = smartTruncate(reason, 300)
			}
			if alternative == "" {
				alternative = "See context"
			} else {
				alternative = smartTruncate(alternative, 300)
			}
			out = append(out, Candidate{
				Kind:        CandidateAnti,
				Pattern:     smartTruncate(bad, 300),
				Reason:      reason,
				Alternative: alternative,
				Tags:        Tags(context),
				Importance:  e.Importance(text),
			})
			if len(out) == 2 {
				return out
			}
		}
	}
	return out
}

func extractProblem(context string) string {
	if m := problemRe.FindString(context); m != "" {
		return strings.TrimSpace(m)
	}
	if m := needContextRe.FindStringSubmatch(context); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
