// Package model defines the memory record types and the aggregate index.
package model

import (
	"strings"
	"time"
)

// Kind identifies a memory record variant.
type Kind string

const (
	KindSolution       Kind = "solution"
	KindError          Kind = "error"
	KindAntipattern    Kind = "antipattern"
	KindPreference     Kind = "preference"
	KindGitConvention  Kind = "git_convention"
	KindDependency     Kind = "dependency"
	KindTestingPattern Kind = "testing"
	KindEnvironment    Kind = "environment"
	KindAPINote        Kind = "api_note"
)

// Dir returns the mirror subdirectory name for a kind.
func (k Kind) Dir() string {
	switch k {
	case KindSolution:
		return "solutions"
	case KindError:
		return "errors"
	case KindAntipattern:
		return "antipatterns"
	case KindPreference:
		return "preferences"
	case KindGitConvention:
		return "git_conventions"
	case KindDependency:
		return "dependencies"
	case KindTestingPattern:
		return "testing"
	case KindEnvironment:
		return "environment"
	case KindAPINote:
		return "api_notes"
	}
	return string(k)
}

// Envelope carries the fields shared by every memory record.
type Envelope struct {
	ID        string     `json:"id"`
	Tags      []string   `json:"tags,omitempty"`
	CreatedAt time.Time  `json:"timestamp"`
	Archived  bool       `json:"archived,omitempty"`
	Refined   bool       `json:"refined,omitempty"`
	RefinedAt *time.Time `json:"refined_at,omitempty"`
	Embedding []float32  `json:"embedding,omitempty"`
}

// Env exposes the envelope for generic operations.
func (e *Envelope) Env() *Envelope { return e }

// Memory is the capability shared by all record kinds: search/archive/refine
// can operate on any of them without knowing the concrete variant.
type Memory interface {
	Env() *Envelope
	Kind() Kind
	// SearchText is the salient text the embedding is computed over.
	SearchText() string
	// FullText concatenates every textual field, used when re-embedding
	// after a refine and by the quality scan.
	FullText() string
	// Refine overwrites the kind's refinable content field.
	Refine(content string)
}

func joinText(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// Solution records a solved problem.
type Solution struct {
	Envelope
	Problem     string `json:"problem"`
	Solution    string `json:"solution"`
	CodeSnippet string `json:"code_snippet,omitempty"`
}

func (s *Solution) Kind() Kind         { return KindSolution }
func (s *Solution) SearchText() string { return joinText(s.Problem, s.Solution) }
func (s *Solution) FullText() string   { return joinText(s.Problem, s.Solution, s.CodeSnippet) }
func (s *Solution) Refine(c string)    { s.Solution = c }

// ErrorPattern records an error and how it was resolved.
type ErrorPattern struct {
	Envelope
	ErrorMessage string `json:"error_message"`
	Resolution   string `json:"resolution"`
	Context      string `json:"context,omitempty"`
}

func (e *ErrorPattern) Kind() Kind         { return KindError }
func (e *ErrorPattern) SearchText() string { return joinText(e.ErrorMessage, e.Resolution) }
func (e *ErrorPattern) FullText() string   { return joinText(e.ErrorMessage, e.Resolution, e.Context) }
func (e *ErrorPattern) Refine(c string)    { e.Resolution = c }

// Antipattern records something to avoid, why, and the alternative.
type Antipattern struct {
	Envelope
	Pattern     string `json:"pattern"`
	Reason      string `json:"reason"`
	Alternative string `json:"alternative"`
}

func (a *Antipattern) Kind() Kind         { return KindAntipattern }
func (a *Antipattern) SearchText() string { return joinText(a.Pattern, a.Reason) }
func (a *Antipattern) FullText() string   { return joinText(a.Pattern, a.Reason, a.Alternative) }
func (a *Antipattern) Refine(c string)    { a.Alternative = c }

// Preference records a user preference in a named category.
type Preference struct {
	Envelope
	Category string `json:"category"`
	Content  string `json:"content"`
}

func (p *Preference) Kind() Kind         { return KindPreference }
func (p *Preference) SearchText() string { return joinText(p.Category, p.Content) }
func (p *Preference) FullText() string   { return joinText(p.Category, p.Content) }
func (p *Preference) Refine(c string)    { p.Content = c }

// GitConvention records a commit/branch/PR convention.
type GitConvention struct {
	Envelope
	ConventionType string `json:"convention_type"`
	Pattern        string `json:"pattern"`
	Example        string `json:"example,omitempty"`
}

func (g *GitConvention) Kind() Kind         { return KindGitConvention }
func (g *GitConvention) SearchText() string { return joinText(g.ConventionType, g.Pattern) }
func (g *GitConvention) FullText() string   { return joinText(g.ConventionType, g.Pattern, g.Example) }
func (g *GitConvention) Refine(c string)    { g.Pattern = c }

// Dependency records notes about a package or library.
type Dependency struct {
	Envelope
	Name              string `json:"name"`
	VersionConstraint string `json:"version_constraint,omitempty"`
	Notes             string `json:"notes,omitempty"`
}

func (d *Dependency) Kind() Kind         { return KindDependency }
func (d *Dependency) SearchText() string { return joinText(d.Name, d.Notes) }
func (d *Dependency) FullText() string   { return joinText(d.Name, d.VersionConstraint, d.Notes) }
func (d *Dependency) Refine(c string)    { d.Notes = c }

// TestingPattern records a testing strategy for a framework.
type TestingPattern struct {
	Envelope
	Strategy  string `json:"strategy"`
	Framework string `json:"framework"`
	Pattern   string `json:"pattern"`
	Example   string `json:"example,omitempty"`
}

func (t *TestingPattern) Kind() Kind         { return KindTestingPattern }
func (t *TestingPattern) SearchText() string { return joinText(t.Strategy, t.Framework, t.Pattern) }
func (t *TestingPattern) FullText() string {
	return joinText(t.Strategy, t.Framework, t.Pattern, t.Example)
}
func (t *TestingPattern) Refine(c string) { t.Pattern = c }

// EnvironmentNote records configuration for an environment type.
type EnvironmentNote struct {
	Envelope
	EnvType string `json:"env_type"`
	Config  string `json:"config"`
	Notes   string `json:"notes,omitempty"`
}

func (e *EnvironmentNote) Kind() Kind         { return KindEnvironment }
func (e *EnvironmentNote) SearchText() string { return joinText(e.EnvType, e.Config) }
func (e *EnvironmentNote) FullText() string   { return joinText(e.EnvType, e.Config, e.Notes) }
func (e *EnvironmentNote) Refine(c string)    { e.Notes = c }

// APINote records quirks of an external service.
type APINote struct {
	Envelope
	ServiceName string `json:"service_name"`
	Endpoint    string `json:"endpoint,omitempty"`
	Notes       string `json:"notes"`
}

func (a *APINote) Kind() Kind         { return KindAPINote }
func (a *APINote) SearchText() string { return joinText(a.ServiceName, a.Notes) }
func (a *APINote) FullText() string   { return joinText(a.ServiceName, a.Endpoint, a.Notes) }
func (a *APINote) Refine(c string)    { a.Notes = c }
