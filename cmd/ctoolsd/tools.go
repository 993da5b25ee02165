package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/ctoolsd/internal/config"
	"github.com/fyrsmithlabs/ctoolsd/internal/ctool"
	"github.com/fyrsmithlabs/ctoolsd/internal/logging"
)

var (
	compileOutput  string
	compileOptions string
	compileVerbose bool

	disassembleOptions string
	disassembleObject  bool
)

func init() {
	compileCmd.Flags().StringVarP(&compileOutput, "output", "o", ctool.DefaultOutputFile, "object file path")
	compileCmd.Flags().StringVar(&compileOptions, "options", ctool.DefaultCompileOptions, "whitespace-separated compiler flags")
	compileCmd.Flags().BoolVar(&compileVerbose, "verbose", false, "report the compiler command line")

	disassembleCmd.Flags().StringVar(&disassembleOptions, "options", ctool.DefaultDisassembleOptions, "whitespace-separated disassembler flags")
	disassembleCmd.Flags().BoolVar(&disassembleObject, "object", false, "treat the input as a compiled object file")
}

// compileCmd compiles C source without going through an MCP host
var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile C source and print the JSON result record",
	Long: `Compile C source code with the configured compiler.

The input is a source file path, or stdin when the argument is "-" or
absent. The tool's JSON result record goes to stdout; pipeline progress
goes to stderr.

Examples:
  # Compile a file
  ctoolsd compile main.c

  # Compile from stdin into a named object file
  cat main.c | ctoolsd compile - -o main.o`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompileCmd,
}

// disassembleCmd disassembles C source or an object file
var disassembleCmd = &cobra.Command{
	Use:   "disassemble [file]",
	Short: "Disassemble C source or an object file and print the JSON result record",
	Long: `Disassemble C source code or a compiled object file.

Source input is compiled to a temporary object file first. The input is
a file path, or stdin when the argument is "-" or absent.

Examples:
  # Disassemble a source file
  ctoolsd disassemble main.c

  # Disassemble an existing object file
  ctoolsd disassemble --object main.o

  # Disassemble with AT&T syntax
  ctoolsd disassemble --options "-d -S" main.c`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDisassembleCmd,
}

// cliObserver prints pipeline progress to stderr; stdout carries the JSON
// result record.
type cliObserver struct{}

func (cliObserver) Info(_ context.Context, msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

func (cliObserver) Error(_ context.Context, msg string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
}

func runCompileCmd(cmd *cobra.Command, args []string) error {
	input, err := toolInput(args)
	if err != nil {
		return err
	}

	svc, err := buildToolService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res := svc.Compile(ctx, map[string]any{
		"code":        input,
		"output_file": compileOutput,
		"options":     compileOptions,
		"verbose":     compileVerbose,
	}, cliObserver{})

	if err := printResult(res); err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("compilation failed")
	}
	return nil
}

func runDisassembleCmd(cmd *cobra.Command, args []string) error {
	input, err := toolInput(args)
	if err != nil {
		return err
	}

	svc, err := buildToolService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res := svc.Disassemble(ctx, map[string]any{
		"input":          input,
		"is_source_code": !disassembleObject,
		"options":        disassembleOptions,
	}, cliObserver{})

	if err := printResult(res); err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("disassembly failed")
	}
	return nil
}

// buildToolService constructs the toolchain service from configuration.
// One-shot commands report through the observer and the result record, so
// the service logger stays quiet.
func buildToolService() (ctool.Service, error) {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	svc, err := ctool.NewService(&ctool.Config{
		Compiler:     cfg.Toolchain.Compiler,
		Disassembler: cfg.Toolchain.Disassembler,
		Timeout:      cfg.Toolchain.Timeout.Duration(),
		MaxParallel:  cfg.Toolchain.MaxParallel,
	}, logging.NewNop())
	if err != nil {
		return nil, fmt.Errorf("failed to create toolchain service: %w", err)
	}

	return svc, nil
}

// toolInput resolves the operand: a path argument passes through for the
// service to resolve, stdin content passes as literal source.
func toolInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		if len(content) == 0 {
			return "", fmt.Errorf("no input provided")
		}
		return string(content), nil
	}
	return args[0], nil
}

// printResult writes the result record to stdout as indented JSON.
func printResult(res any) error {
	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
