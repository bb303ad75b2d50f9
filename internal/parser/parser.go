// Package parser turns raw model responses into typed analysis records.
//
// Two response dialects are understood: a JSON object embedded anywhere in the
// text, and an older format of tag-delimited sections. The structured dialect
// is tried first; on any failure the legacy dialect fills a complete record
// with fixed defaults, so parsing never fails outright.
package parser

import (
	"time"

	"resumematch/internal/scoring"
	"resumematch/internal/types"
)

// Dialect tags the outcome of a parse
type Dialect string

const (
	DialectStructured Dialect = "structured"
	DialectLegacy     Dialect = "legacy"
	DialectFailed     Dialect = "failed"
)

// ParseResult is the outcome of parsing one response.
// Record is never nil: a failed parse carries the fully defaulted legacy record.
type ParseResult struct {
	Dialect Dialect
	Record  *types.AnalysisRecord
	// Reason explains why the structured dialect was rejected; empty when it was accepted
	Reason string
}

// Failed reports whether neither dialect found usable content
func (r ParseResult) Failed() bool {
	return r.Dialect == DialectFailed
}

// Parser parses analysis responses
type Parser struct {
	synth            *scoring.Synthesizer
	suggestResources bool
	now              func() time.Time
}

// Option configures a Parser
type Option func(*Parser)

// WithLearningResources fills learning resources of legacy records from their skill gaps
func WithLearningResources(enabled bool) Option {
	return func(p *Parser) { p.suggestResources = enabled }
}

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) Option {
	return func(p *Parser) { p.now = now }
}

// New creates a parser that synthesizes legacy scores with synth
func New(synth *scoring.Synthesizer, opts ...Option) *Parser {
	p := &Parser{synth: synth, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = New(scoring.NewSynthesizer(time.Now().UnixNano()))

// Parse parses responseText with a parser seeded from the clock
func Parse(responseText string) ParseResult {
	return defaultParser.Parse(responseText)
}

// Parse tries the structured dialect, then the legacy dialect
func (p *Parser) Parse(responseText string) ParseResult {
	rec, err := p.ParseStructured(responseText)
	if err == nil {
		return ParseResult{Dialect: DialectStructured, Record: rec}
	}

	sections := extractSections(responseText)
	legacy := p.buildLegacy(sections)
	if !sections.usable() {
		return ParseResult{Dialect: DialectFailed, Record: legacy, Reason: err.Error()}
	}
	return ParseResult{Dialect: DialectLegacy, Record: legacy, Reason: err.Error()}
}

// ParseStructured parses only the structured dialect
func (p *Parser) ParseStructured(responseText string) (*types.AnalysisRecord, error) {
	rec, err := decodeStructured(responseText)
	if err != nil {
		return nil, err
	}
	rec.Timestamp = p.now()
	return rec, nil
}

// ParseLegacy parses only the legacy dialect. Missing sections fall back to defaults.
func (p *Parser) ParseLegacy(responseText string) *types.AnalysisRecord {
	return p.buildLegacy(extractSections(responseText))
}

func (p *Parser) buildLegacy(s legacySections) *types.AnalysisRecord {
	rec := buildLegacyRecord(s, p.synth, p.suggestResources)
	rec.Timestamp = p.now()
	return rec
}
