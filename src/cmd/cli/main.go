package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
)

const (
	maxScriptSizeMB = 4
	maxScriptSize   = maxScriptSizeMB * 1024 * 1024
)

func main() {
	if err := runWithArgs(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runWithArgs(args []string) error {
	if len(args) == 0 {
		args = []string{"roi-overlay-cli"}
	}
	cmd := newRootCmd(os.Stdin, os.Stdout)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:           "roi-overlay-cli",
		Short:         "Exercise the selection overlay without a display",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Configure logging BEFORE any other operations.
			if verbose {
				log.SetOutput(cmd.ErrOrStderr())
			} else {
				log.SetOutput(io.Discard)
			}
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output to stderr")
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)

	cmd.AddCommand(newReplayCmd(), newResolveCmd(), newQueryCmd())
	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(io.LimitReader(cmd.InOrStdin(), maxScriptSize+1))
		if err != nil {
			return nil, fmt.Errorf("failed to read from stdin: %w", err)
		}
	} else {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", path, err)
		}
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("input file is empty")
	}
	if len(data) > maxScriptSize {
		return nil, fmt.Errorf("input file exceeds maximum size of %d MB", maxScriptSizeMB)
	}
	return data, nil
}
