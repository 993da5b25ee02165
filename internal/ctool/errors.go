package ctool

import (
	"fmt"
	"strings"
)

// FieldViolation describes one invalid field in a tool request.
type FieldViolation struct {
	Field  string
	Reason string
}

// ValidationError enumerates every violated field in a request. It is
// produced before any filesystem or process side effect.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.Field + ": " + v.Reason
	}
	return "invalid arguments: " + strings.Join(parts, "; ")
}

// ReadError reports a source path that exists but could not be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading source file %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// CompileError reports a compiler run that exited nonzero. Diagnostic is
// the compiler's stderr with surrounding whitespace trimmed.
type CompileError struct {
	Diagnostic string
	Returncode int
}

func (e *CompileError) Error() string { return e.Diagnostic }

// DisassembleError reports a disassembler run that exited nonzero.
type DisassembleError struct {
	Diagnostic string
}

func (e *DisassembleError) Error() string { return e.Diagnostic }

// stageError attributes a pipeline failure to the stage it occurred in.
// Error text passes through undecorated so the result record carries the
// underlying diagnostic alone.
type stageError struct {
	stage string
	err   error
}

func (e *stageError) Error() string { return e.err.Error() }

func (e *stageError) Unwrap() error { return e.err }
