// Ctoolsd is an MCP server exposing a C compile and disassembly toolchain.
//
// The daemon speaks MCP over stdio with compile and disassemble tools, a
// corpus of example disassemblies, and a security review prompt. An optional
// HTTP listener serves health and Prometheus metrics for supervision.
//
// Configuration is loaded from ~/.config/ctoolsd/config.yaml and overridden
// by environment variables. See internal/config for details.
//
// Usage:
//
//	# Start the stdio MCP server
//	ctoolsd
//
//	# Compile a file directly, printing the JSON result record
//	ctoolsd compile main.c
//
//	# Configure via environment
//	TOOLCHAIN_COMPILER=clang ctoolsd
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "0.1.0"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// configPath is the --config flag value; empty uses the default path.
var configPath string

var rootCmd = &cobra.Command{
	Use:   "ctoolsd",
	Short: "MCP server for C compilation and disassembly",
	Long: `ctoolsd exposes a C toolchain to MCP hosts over stdio.

It provides compile and disassemble tools, a corpus of example
disassemblies, and a security review prompt. Running ctoolsd without a
subcommand starts the stdio server.`,
	Version:      version,
	Args:         cobra.NoArgs,
	RunE:         runServe,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"ctoolsd by Fyrsmith Labs\nVersion:    %s\nCommit:     %s\nBuild Date: %s\n",
		version, gitCommit, buildDate))
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/ctoolsd/config.yaml)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(disassembleCmd)
}
