package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/input-output-hk/catalyst-forge-libs/executor"
	log "github.com/sirupsen/logrus"
)

// CommandRunner runs an external program to completion and returns its
// combined output. A non-zero exit is an *ExternalCommandError.
type CommandRunner interface {
	Run(ctx context.Context, program string, args ...string) (string, error)
}

type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, program string, args ...string) (string, error) {
	log.Info(fmt.Sprintf("Running: %s %s", program, strings.Join(args, " ")))

	result, runErr := executor.New(program, args...).Execute(ctx, executor.WithCapture(false, false, true))
	if runErr != nil {
		output, exitCode := "", -1
		if result != nil {
			output, exitCode = result.Combined, result.ExitCode
		}
		log.Warn(fmt.Sprintf("%s failed: %s", program, strings.TrimSpace(output)))

		return output, &ExternalCommandError{
			Program:  program,
			Args:     args,
			ExitCode: exitCode,
			Output:   output,
			Err:      runErr,
		}
	}
	log.Debug(result.Combined)

	return result.Combined, nil
}
