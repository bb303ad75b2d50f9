package common

import (
	"context"
	"fmt"
	"time"

	"resumematch/internal/errors"
)

// CreateInputFunc builds a command's input from its file arguments
type CreateInputFunc[Input any] func(fp *FileProcessor, args []string) (Input, error)

// LogDetailsFunc logs the start of an operation
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// OperationFunc is the work a command performs on its input
type OperationFunc[Input, Output any] func(context.Context, Input) (Output, error)

// RunFileCommand reads the inputs named by args, runs the operation and
// prints its result in the configured format.
func RunFileCommand[Input, Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	args []string,
	createInput CreateInputFunc[Input],
	operation OperationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
) error {
	fileProcessor := NewFileProcessor(logger)
	outputHandler := NewOutputHandlerTo(cmdConfig.stdout(), logger)

	// Fail on a bad output path before doing any work
	if err := fileProcessor.ValidateOutputFile(cmdConfig.OutputFile); err != nil {
		return err
	}

	input, err := createInput(fileProcessor, args)
	if err != nil {
		return fmt.Errorf("failed to read command input: %w", err)
	}

	if logDetails != nil {
		logDetails(input, cmdConfig)
	}

	start := time.Now()
	result, err := operation(ctx, input)
	if err != nil {
		return err
	}
	if logger != nil {
		logger.Debug("Operation finished", "duration", time.Since(start))
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}
