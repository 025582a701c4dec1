package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/luthor/tokenize"
)

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List the configured token kinds in priority order",
	Run: func(cmd *cobra.Command, args []string) {
		_, config, err := tokenize.New(cfgFile, "")
		if err != nil {
			logger.Fatal("Failed to load token configuration", zap.Error(err))
		}
		if err := printKinds(config, os.Stdout); err != nil {
			logger.Error("Error printing kinds", zap.Error(err))
		}
	},
}

func printKinds(config tokenize.Config, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, t := range config.Tokens {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, t.Name, t.Pattern)
	}
	return tw.Flush()
}
