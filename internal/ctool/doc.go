// Package ctool orchestrates the C toolchain.
//
// A tool request enters as a raw parameter mapping, is validated against the
// operation's declared field set, resolved to source text (literal or file
// path), and executed as one or two bounded toolchain processes: compile
// (source on stdin, object file out) and disassemble (object file in,
// assembly listing out). Outcomes are reported as tagged result records;
// the disassemble record carries the first pipeline stage that failed
// (validation, read_source, compilation, disassembly). No fault escapes the
// service boundary as an error: panics and process failures are converted
// into failure records.
//
// Intermediate object files for disassemble-from-source are uniquely named
// per call and removed on every exit path. The standalone compile operation
// writes to the caller-specified output path, which is caller-owned and
// never cleaned up; concurrent calls sharing an output path will race.
package ctool
