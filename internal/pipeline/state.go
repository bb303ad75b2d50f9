// Package pipeline drives one resume from upload to parsed analysis and
// tracks the user-visible state of that run.
package pipeline

import (
	"strings"

	"resumematch/internal/errors"
	"resumematch/internal/types"
	"resumematch/internal/validator"
)

// Phase is the user-visible stage of an analysis
type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhaseUploading        Phase = "uploading"
	PhaseValidating       Phase = "validating"
	PhaseAwaitingAnalysis Phase = "awaiting_analysis"
	PhaseShowingResults   Phase = "showing_results"
	PhaseError            Phase = "error"
)

// State is the complete UI state of one session.
// ErrorKind and Message are set only in PhaseError; Record only in PhaseShowingResults.
type State struct {
	Phase     Phase
	ErrorKind errors.Kind
	Message   string
	Record    *types.AnalysisRecord
}

// Err returns the failure shown in PhaseError as an error of the same kind, and nil in other phases
func (s State) Err() error {
	if s.Phase != PhaseError {
		return nil
	}
	return errors.NewKindError(s.ErrorKind, strings.ToUpper(string(s.ErrorKind)), s.Message, nil)
}

// Idle is the initial state
func Idle() State {
	return State{Phase: PhaseIdle}
}

// EventType names what happened
type EventType string

const (
	EventUploadStarted    EventType = "upload_started"
	EventUploadRejected   EventType = "upload_rejected"
	EventTextExtracted    EventType = "text_extracted"
	EventExtractionFailed EventType = "extraction_failed"
	EventDocumentAccepted EventType = "document_accepted"
	EventDocumentRejected EventType = "document_rejected"
	EventAnalysisReceived EventType = "analysis_received"
	EventAnalysisFailed   EventType = "analysis_failed"
	EventRetry            EventType = "retry"
	EventReset            EventType = "reset"
)

// Event is one input to Reduce. Build events with the constructors below.
type Event struct {
	Type    EventType
	Kind    errors.Kind
	Message string
	Record  *types.AnalysisRecord
}

func UploadStarted() Event { return Event{Type: EventUploadStarted} }

func UploadRejected(message string) Event {
	return Event{Type: EventUploadRejected, Kind: errors.KindValidation, Message: message}
}

func TextExtracted() Event { return Event{Type: EventTextExtracted} }

func ExtractionFailed(message string) Event {
	return Event{Type: EventExtractionFailed, Kind: errors.KindExtractionFailure, Message: message}
}

func DocumentAccepted() Event { return Event{Type: EventDocumentAccepted} }

func DocumentRejected(verdict validator.Verdict) Event {
	return Event{Type: EventDocumentRejected, Kind: errors.KindInvalidDocument, Message: verdict.Message()}
}

func AnalysisReceived(record *types.AnalysisRecord) Event {
	return Event{Type: EventAnalysisReceived, Record: record}
}

// AnalysisFailed reports a network or parse failure of the analysis step
func AnalysisFailed(kind errors.Kind, message string) Event {
	return Event{Type: EventAnalysisFailed, Kind: kind, Message: message}
}

func Retry() Event { return Event{Type: EventRetry} }

func Reset() Event { return Event{Type: EventReset} }

// Reduce returns the state after e. Events that are not legal in the
// current phase leave the state unchanged.
func Reduce(s State, e Event) State {
	switch e.Type {
	case EventRetry, EventReset:
		return Idle()
	case EventUploadStarted:
		// A new upload abandons whatever the previous one was doing
		return State{Phase: PhaseUploading}
	}

	switch s.Phase {
	case PhaseUploading:
		switch e.Type {
		case EventUploadRejected, EventExtractionFailed:
			return failed(e)
		case EventTextExtracted:
			return State{Phase: PhaseValidating}
		}
	case PhaseValidating:
		switch e.Type {
		case EventDocumentRejected:
			return failed(e)
		case EventDocumentAccepted:
			return State{Phase: PhaseAwaitingAnalysis}
		}
	case PhaseAwaitingAnalysis:
		switch e.Type {
		case EventAnalysisFailed:
			return failed(e)
		case EventAnalysisReceived:
			if e.Record == nil {
				return s
			}
			return State{Phase: PhaseShowingResults, Record: e.Record}
		}
	}
	return s
}

func failed(e Event) State {
	return State{Phase: PhaseError, ErrorKind: e.Kind, Message: e.Message}
}
