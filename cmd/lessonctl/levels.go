package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/lesson-studio-api/internal/handler"
	"github.com/noah-isme/lesson-studio-api/internal/models"
)

func newLevelsCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:       "levels <framework>",
		Short:     "Print the level table of a framework (GEPT, TOCFL or GRADE)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"gept", "tocfl", "grade"},
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(output)
			if err != nil {
				return err
			}
			framework := models.Framework(strings.ToUpper(args[0]))
			if !framework.Valid() {
				return fmt.Errorf("unknown framework %q", args[0])
			}
			rows := handler.FrameworkRows(framework)
			out := cmd.OutOrStdout()

			switch format {
			case outputJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			case outputYAML:
				return yaml.NewEncoder(out).Encode(rows)
			}

			color.New(color.Bold).Fprintln(out, framework)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "LEVEL\tLABEL\tCEFR\tVOCAB\tMAX WORDS")
			for _, row := range rows {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d-%d\t%d\n", row.Level, row.Label, row.CEFR, row.VocabMin, row.VocabMax, row.MaxSentenceWords)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", string(outputText), "output format: text, json or yaml")
	return cmd
}
