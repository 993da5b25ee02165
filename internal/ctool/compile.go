package ctool

import (
	"context"
	"fmt"
	"strings"
)

type compileOutput struct {
	stdout     string
	outputFile string
}

// runCompile feeds C source to the compiler on stdin and writes the object
// file to outputFile. Failures come back as *CompileError for a nonzero
// compiler exit, or an untyped error when the compiler never delivered a
// verdict.
func (s *service) runCompile(ctx context.Context, obs Observer, source, outputFile string, options []string, verbose bool) (*compileOutput, error) {
	cmdArgs := make([]string, 0, len(options)+5)
	cmdArgs = append(cmdArgs, options...)
	cmdArgs = append(cmdArgs, "-xc", "-c", "-", "-o", outputFile)

	if verbose {
		obs.Info(ctx, fmt.Sprintf("running command: %s %s", s.config.Compiler, strings.Join(cmdArgs, " ")))
	}

	run, err := s.run(ctx, s.config.Compiler, cmdArgs, strings.NewReader(source))
	if err != nil {
		obs.Error(ctx, fmt.Sprintf("unhandled error: %v", err))
		return nil, err
	}
	if run.exitCode != 0 {
		diag := strings.TrimSpace(run.stderr)
		obs.Error(ctx, fmt.Sprintf("compiler error: %s", diag))
		return nil, &CompileError{Diagnostic: diag, Returncode: run.exitCode}
	}

	return &compileOutput{stdout: run.stdout, outputFile: outputFile}, nil
}
