package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// errValidationFailed signals a completed run whose plan did not pass.
var errValidationFailed = errors.New("validation failed")

func main() {
	if err := newRootCommand().Execute(); err != nil {
		if !errors.Is(err, errValidationFailed) {
			color.New(color.FgHiRed).Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "lessonctl",
		Short:         "Offline tools for lesson plan authors",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newValidateCommand(), newLevelsCommand())
	return root
}

type outputFormat string

const (
	outputText outputFormat = "text"
	outputJSON outputFormat = "json"
	outputYAML outputFormat = "yaml"
)

func parseOutputFormat(raw string) (outputFormat, error) {
	switch format := outputFormat(raw); format {
	case outputText, outputJSON, outputYAML:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported output %q (want text, json or yaml)", raw)
	}
}
