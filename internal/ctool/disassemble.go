package ctool

import (
	"context"
	"fmt"
	"strings"
)

// disassembleCompileOptions are the fixed flags for the intermediate compile
// of disassemble-from-source. The request's options apply only to the
// disassembler; tuning the compile is what the standalone compile tool is
// for.
var disassembleCompileOptions = []string{"-O0", "-std=c17"}

// runDisassemble executes the disassemble pipeline after validation:
// resolve source, compile to a temp artifact (source inputs only), then
// disassemble the target. Every error is attributed to the stage it
// occurred in via stageError. The temp artifact is removed before return on
// all paths.
func (s *service) runDisassemble(ctx context.Context, obs Observer, req *DisassembleRequest) (string, error) {
	target := req.Input

	if req.IsSourceCode {
		source, err := resolveSource(req.Input)
		if err != nil {
			obs.Error(ctx, err.Error())
			return "", &stageError{stage: StageReadSource, err: err}
		}

		obs.Info(ctx, "compiling C source before disassembly")

		artifact, err := newTempArtifact()
		if err != nil {
			obs.Error(ctx, fmt.Sprintf("unhandled error: %v", err))
			return "", &stageError{stage: StageCompilation, err: err}
		}
		defer artifact.release(ctx, s.logger)

		if _, err := s.runCompile(ctx, obs, source, artifact.path, disassembleCompileOptions, false); err != nil {
			return "", &stageError{stage: StageCompilation, err: err}
		}
		target = artifact.path
	}

	obs.Info(ctx, fmt.Sprintf("disassembling %s", target))

	cmdArgs := make([]string, 0, len(req.Options)+1)
	cmdArgs = append(cmdArgs, req.Options...)
	cmdArgs = append(cmdArgs, target)

	run, err := s.run(ctx, s.config.Disassembler, cmdArgs, nil)
	if err != nil {
		obs.Error(ctx, fmt.Sprintf("unhandled error: %v", err))
		return "", &stageError{stage: StageDisassembly, err: err}
	}
	if run.exitCode != 0 {
		diag := strings.TrimSpace(run.stderr)
		obs.Error(ctx, fmt.Sprintf("disassembler error: %s", diag))
		return "", &stageError{stage: StageDisassembly, err: &DisassembleError{Diagnostic: diag}}
	}

	return run.stdout, nil
}
