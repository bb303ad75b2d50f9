package cli

import (
	"time"

	"resumematch/internal/config"
	"resumematch/internal/errors"
	"resumematch/internal/parser"
	"resumematch/internal/scoring"
	"resumematch/internal/validator"
)

// newValidator builds a validator over the configured vocabulary file, or the
// built-in vocabulary when none is set
func newValidator(cfg *config.Config, logger *errors.Logger) (*validator.Validator, error) {
	path := cfg.Validator.VocabularyFile
	if path == "" {
		return validator.New(validator.DefaultVocabulary()), nil
	}

	vocab, err := validator.LoadVocabulary(path)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"Failed to load the validator vocabulary", err).WithContext("file", path)
	}
	logger.Debug("Loaded validator vocabulary", "file", path,
		"positive_terms", len(vocab.Positive), "negative_terms", len(vocab.Negative))
	return validator.New(vocab), nil
}

// newParser builds a response parser whose synthesized scores vary per run
func newParser(cfg *config.Config) *parser.Parser {
	return parser.New(scoring.NewSynthesizer(time.Now().UnixNano()),
		parser.WithLearningResources(cfg.AI.SuggestResources))
}
