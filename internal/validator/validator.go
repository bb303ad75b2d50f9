// Package validator decides from extracted text alone whether a document is a resume.
package validator

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"
)

// Reason classifies a rejected document
type Reason string

const (
	ReasonNone                Reason = ""
	ReasonEmpty               Reason = "empty"
	ReasonNonResume           Reason = "non_resume_content"
	ReasonInsufficientContent Reason = "insufficient_content"
	ReasonTooShort            Reason = "too_short"
	ReasonMissingSections     Reason = "missing_sections"
)

// MinTextLength is the shortest trimmed text accepted as a resume
const MinTextLength = 100

const (
	negativeThreshold = 3
	positiveThreshold = 3
)

// Verdict is the outcome of validating one document
type Verdict struct {
	IsValid bool   `json:"isValid"`
	Reason  Reason `json:"reason,omitempty"`
	// Detail carries the first matched negative term for ReasonNonResume
	Detail string `json:"detail,omitempty"`
}

// Message returns the user-facing explanation of the verdict
func (v Verdict) Message() string {
	switch v.Reason {
	case ReasonNone:
		return ""
	case ReasonEmpty:
		return "No text content found in the document. Please ensure the PDF contains readable text."
	case ReasonNonResume:
		return fmt.Sprintf("This document appears to be a %s document, not a resume. Please upload a CV or resume document.", v.Detail)
	case ReasonInsufficientContent:
		return "This document doesn't contain enough resume-related content. Please upload a proper CV or resume with your work experience, education, and skills."
	case ReasonTooShort:
		return "The document is too short to be analyzed. Please upload a complete resume."
	case ReasonMissingSections:
		return "This document doesn't appear to contain typical resume sections (experience, education, or skills). Please upload a proper CV or resume."
	default:
		return "The document could not be validated."
	}
}

// Matches lists the vocabulary hits found in a text
type Matches struct {
	Negative []string `json:"negative"`
	Positive []string `json:"positive"`
}

// Validator classifies extracted text. The zero value is not usable; use New.
type Validator struct {
	mu    sync.RWMutex
	vocab Vocabulary
}

// New creates a validator for the given vocabulary
func New(vocab Vocabulary) *Validator {
	return &Validator{vocab: vocab.normalized()}
}

var defaultValidator = New(DefaultVocabulary())

// Validate classifies text with the built-in vocabulary
func Validate(text string) Verdict {
	return defaultValidator.Validate(text)
}

// SetVocabulary swaps the vocabulary used by subsequent validations
func (v *Validator) SetVocabulary(vocab Vocabulary) {
	vocab = vocab.normalized()
	v.mu.Lock()
	v.vocab = vocab
	v.mu.Unlock()
}

// Vocabulary returns the vocabulary currently in use
func (v *Validator) Vocabulary() Vocabulary {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.vocab
}

// Validate classifies text. Rules apply in order and the first failing rule wins.
func (v *Validator) Validate(text string) Verdict {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Verdict{Reason: ReasonEmpty}
	}

	vocab := v.Vocabulary()
	lower := strings.ToLower(text)

	negative := matchTerms(lower, vocab.Negative)
	if len(negative) >= negativeThreshold {
		return Verdict{Reason: ReasonNonResume, Detail: negative[0]}
	}

	if countTerms(lower, vocab.Positive) < positiveThreshold {
		return Verdict{Reason: ReasonInsufficientContent}
	}

	if utf8.RuneCountInString(trimmed) < MinTextLength {
		return Verdict{Reason: ReasonTooShort}
	}

	if !containsAny(lower, vocab.Experience) &&
		!containsAny(lower, vocab.Education) &&
		!containsAny(lower, vocab.Skills) {
		return Verdict{Reason: ReasonMissingSections}
	}

	return Verdict{IsValid: true}
}

// Match reports which vocabulary terms occur in text, in vocabulary order
func (v *Validator) Match(text string) Matches {
	vocab := v.Vocabulary()
	lower := strings.ToLower(text)
	return Matches{
		Negative: matchTerms(lower, vocab.Negative),
		Positive: matchTerms(lower, vocab.Positive),
	}
}

func matchTerms(lower string, terms []string) []string {
	var hits []string
	for _, term := range terms {
		if strings.Contains(lower, term) {
			hits = append(hits, term)
		}
	}
	return hits
}

func countTerms(lower string, terms []string) int {
	n := 0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			n++
		}
	}
	return n
}

func containsAny(lower string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
