package server

import (
	"io"
	"net/http"
	"strings"
	"time"

	"resumematch/internal/errors"
	"resumematch/internal/extract"
	"resumematch/internal/observability"
	"resumematch/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// multipartMemory is how much of a multipart body is held in memory before spilling to disk
const multipartMemory = 8 << 20

// createMatcherHandler streams the model response for a resume prompt
func (s *Server) createMatcherHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer("resumematch.api").Start(r.Context(), "api.matcher")
		defer span.End()

		var req types.MatcherRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", string(errors.KindValidation), err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.Prompt) == "" {
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing prompt", string(errors.KindValidation), "prompt field is required", http.StatusBadRequest)
			return
		}

		if !s.AI.HasKey() {
			span.SetAttributes(attribute.String("error.type", "config"))
			s.Logger.Warn("Matcher request rejected: no API key configured",
				"request_id", requestIDFrom(ctx))
			writeErrorResponse(w, "API key not configured", string(errors.KindConfig),
				"The analysis service has no API key configured.", http.StatusInternalServerError)
			return
		}

		span.SetAttributes(
			attribute.Int("request.prompt_length", len(req.Prompt)),
			attribute.String("dialect", s.AI.Dialect()),
		)

		flusher, _ := w.(http.Flusher)
		started := false
		chunks := 0
		start := time.Now()

		err := s.AI.Stream(ctx, req.Prompt, func(chunk string) error {
			if !started {
				startStream(w)
				started = true
			}
			if _, err := io.WriteString(w, chunk); err != nil {
				return err
			}
			chunks++
			if flusher != nil {
				flusher.Flush()
			}
			return nil
		})
		s.metrics.RecordAIRequest(ctx, "matcher", time.Since(start), err)
		span.SetAttributes(attribute.Int("response.chunks", chunks))

		if err == nil {
			if !started {
				// An empty response still commits the streaming content type
				startStream(w)
			}
			w.Header().Set(types.StreamStatusTrailer, types.StreamComplete)
			return
		}

		span.RecordError(err)
		if started {
			// Headers are gone; the trailer marks the body as a fragment
			w.Header().Set(types.StreamStatusTrailer, types.StreamInterrupted)
			s.Logger.LogError(err, "Matcher stream interrupted",
				"request_id", requestIDFrom(ctx),
				"chunks", chunks)
			return
		}

		s.Logger.LogError(err, "Matcher request failed", "request_id", requestIDFrom(ctx))
		writeAppError(w, err, http.StatusInternalServerError)
	}
}

// startStream commits the streaming headers and announces the status trailer
func startStream(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Trailer", types.StreamStatusTrailer)
	w.WriteHeader(http.StatusOK)
}

// createAnalyzeHandler runs the whole pipeline on an uploaded PDF
func (s *Server) createAnalyzeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer("resumematch.api").Start(r.Context(), "api.analyze")
		defer span.End()
		requestID := requestIDFrom(ctx)

		uploads, err := readUploads(r)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeAppError(w, err, http.StatusBadRequest)
			return
		}

		outcome, err := s.runner.Run(ctx, uploads, nil)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", string(errors.KindOf(err))))
			s.Logger.LogError(err, "Analysis failed", "request_id", requestID)
			writeAppError(w, err, statusForError(err))
			return
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Bool("cached", outcome.Cached),
			attribute.String("dialect", string(outcome.Result.Dialect)),
			attribute.Int("match.overall", outcome.Result.Record.MatchPercentage.Overall),
		)

		writeJSON(w, http.StatusOK, types.AnalyzeResponse{
			RequestID: requestID,
			Dialect:   string(outcome.Result.Dialect),
			Cached:    outcome.Cached,
			Record:    outcome.Result.Record,
		})
	}
}

// createValidateHandler reports the verdict for an uploaded PDF or JSON text
func (s *Server) createValidateHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer("resumematch.api").Start(r.Context(), "api.validate")
		defer span.End()

		var text string
		if hasMediaType(r, "multipart/form-data") {
			uploads, err := readUploads(r)
			if err == nil {
				text, err = s.extractUpload(r, uploads)
			}
			if err != nil {
				span.RecordError(err)
				writeAppError(w, err, statusForError(err))
				return
			}
		} else {
			var req types.ValidateRequest
			if err := parseJSONRequest(r, &req); err != nil {
				span.RecordError(err)
				writeErrorResponse(w, "Invalid request body", string(errors.KindValidation), err.Error(), http.StatusBadRequest)
				return
			}
			text = req.Text
		}

		verdict := s.Validator.Validate(text)
		s.metrics.RecordVerdict(ctx, string(verdict.Reason), verdict.IsValid)
		span.SetAttributes(
			attribute.Bool("valid", verdict.IsValid),
			attribute.String("reason", string(verdict.Reason)),
		)

		writeJSON(w, http.StatusOK, ValidateResponse{
			IsValid: verdict.IsValid,
			Reason:  verdict.Reason,
			Message: verdict.Message(),
		})
	}
}

func (s *Server) extractUpload(r *http.Request, uploads []types.Upload) (string, error) {
	upload, err := extract.CheckUploads(uploads)
	if err != nil {
		return "", err
	}
	return s.Extractor.ExtractText(r.Context(), upload.Data)
}

// readUploads collects every part of the multipart field "file"
func readUploads(r *http.Request) ([]types.Upload, error) {
	if !hasMediaType(r, "multipart/form-data") {
		return nil, errors.NewValidationError(errors.ErrCodeUploadRejected,
			"Please upload a single PDF file.", nil)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeUploadRejected,
			"The PDF wasn't uploaded correctly.", readError(err))
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	files := r.MultipartForm.File["file"]
	uploads := make([]types.Upload, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, errors.NewValidationError(errors.ErrCodeUploadRejected,
				"The PDF wasn't uploaded correctly.", err)
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, errors.NewValidationError(errors.ErrCodeUploadRejected,
				"The PDF wasn't uploaded correctly.", readError(err))
		}
		uploads = append(uploads, types.Upload{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	return uploads, nil
}
