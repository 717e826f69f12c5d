// Package security detects sensitive content in memory text. Detection is
// purely advisory: it warns or triggers auto-pinning but never blocks a
// write.
package security

import "regexp"

type labeledPattern struct {
	label string
	re    *regexp.Regexp
}

// Patterns for credentials and known provider token shapes. Matches produce
// human-readable labels for the advisory warning.
var sensitivePatterns = []labeledPattern{
	{"API key assignment", regexp.MustCompile(`(?i)api[_-]?key\s*[:=]\s*\S+`)},
	{"secret assignment", regexp.MustCompile(`(?i)(secret|token|passwd|password)\s*[:=]\s*\S+`)},
	{"bearer token", regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9\-._~+/]{20,}`)},
	{"private key header", regexp.MustCompile(`-----BEGIN (?:RSA |EC |OPENSSH |DSA )?PRIVATE KEY-----`)},
	{"AWS access key", regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`)},
	{"GitHub token", regexp.MustCompile(`\bgh[pousr]_[A-Za-z0-9]{36,}\b`)},
	{"Slack token", regexp.MustCompile(`\bxox[baprs]-[A-Za-z0-9-]{10,}\b`)},
	{"OpenAI-style key", regexp.MustCompile(`\bsk-[A-Za-z0-9]{20,}\b`)},
}

// DetectSensitive returns human-readable labels for every credential-like
// shape found in the text. An empty result means nothing matched.
func DetectSensitive(text string) []string {
	var labels []string
	for _, p := range sensitivePatterns {
		if p.re.MatchString(text) {
			labels = append(labels, p.label)
		}
	}
	return labels
}

// AutoPin describes content that should be preserved as a pinned memory.
type AutoPin struct {
	Category    string
	Description string
	Matched     string
	Sensitive   bool
}

type autoPinPattern struct {
	category    string
	description string
	sensitive   bool
	re          *regexp.Regexp
}

// The auto-pin family is stricter than the advisory one: these are concrete
// connection details worth preserving verbatim, not just suspicious shapes.
var autoPinPatterns = []autoPinPattern{
	{"credentials", "SSH connection", true,
		regexp.MustCompile(`\bssh\s+[A-Za-z0-9._-]+@[A-Za-z0-9.-]+\b`)},
	{"credentials", "database connection URI", true,
		regexp.MustCompile(`\b(?:postgres(?:ql)?|mysql|mongodb(?:\+srv)?|redis|amqp)://\S+`)},
	{"credentials", "bearer token", true,
		regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9\-._~+/]{30,}`)},
	{"infrastructure", "IPv4 address", true,
		regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)},
	{"api_endpoints", "API endpoint URL", false,
		regexp.MustCompile(`https?://[A-Za-z0-9.-]+/(?:api|v\d+)[A-Za-z0-9/_.-]*`)},
}

// DetectAutoPin returns the first auto-pin trigger found in the text, or nil
// when nothing qualifies. Callers must dedupe against existing pins of the
// same category before creating a new one.
func DetectAutoPin(text string) *AutoPin {
	for _, p := range autoPinPatterns {
		if m := p.re.FindString(text); m != "" {
			return &AutoPin{
				Category:    p.category,
				Description: p.description,
				Matched:     m,
				Sensitive:   p.sensitive,
			}
		}
	}
	return nil
}
