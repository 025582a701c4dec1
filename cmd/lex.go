package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/luthor/internal"
	tt "github.com/gnolang/luthor/internal/types"
	"github.com/gnolang/luthor/tokenize"
)

var (
	skipKinds     string
	lexJsonOutput bool
	outPath       string
	cacheDir      string
	issuesOnly    bool
	showProgress  bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [paths...]",
	Short: "Tokenize files and print their tokens",
	Long:  "Tokenize files and print their tokens. A path of - reads from standard input.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		engine, config, err := tokenize.New(cfgFile, cacheDir)
		if err != nil {
			logger.Fatal("Failed to initialize tokenizer", zap.Error(err))
		}

		for _, kind := range splitList(skipKinds) {
			engine.IgnoreKind(kind)
		}

		opts := tokenize.ProcessOptions{Extensions: config.Extensions}
		if showProgress {
			opts.Progress = os.Stderr
		}

		out := outputOptions{json: lexJsonOutput, path: outPath, issuesOnly: issuesOnly}
		failed, err := runTokenizeProcess(ctx, logger, engine, args, opts, out, os.Stdin, os.Stdout)
		if err != nil {
			logger.Error("Error processing files", zap.Error(err))
			os.Exit(1)
		}
		if failed {
			os.Exit(1)
		}
	},
}

func init() {
	lexCmd.Flags().StringVar(&skipKinds, "skip", "", "Comma-separated list of token kinds to leave out")
	lexCmd.Flags().BoolVar(&lexJsonOutput, "json", false, "Output results in JSON format")
	lexCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	lexCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Directory for cached results (disabled when empty)")
	lexCmd.Flags().BoolVar(&issuesOnly, "issues-only", false, "Only print unmatched input")
	lexCmd.Flags().BoolVar(&showProgress, "progress", false, "Show a progress bar for directories")
}

type outputOptions struct {
	json       bool
	path       string
	issuesOnly bool
}

const (
	// stdinPath as a path argument reads standard input.
	stdinPath = "-"
	stdinName = "<stdin>"
)

// runTokenizeProcess tokenizes paths and prints the results to w. It
// reports whether any input contained text no token matches.
func runTokenizeProcess(
	ctx context.Context,
	logger *zap.Logger,
	engine tokenize.TokenizeEngine,
	paths []string,
	opts tokenize.ProcessOptions,
	out outputOptions,
	stdin io.Reader,
	w io.Writer,
) (bool, error) {
	var results []tt.Result
	sources := make(map[string]*internal.SourceCode)

	for _, path := range paths {
		if path != stdinPath {
			r, err := tokenize.ProcessFiles(ctx, logger, engine, []string{path}, opts, tokenize.ProcessFile)
			if err != nil {
				return false, err
			}
			results = append(results, r...)
			continue
		}

		if _, seen := sources[stdinName]; seen {
			continue
		}
		r, source, err := processStdin(ctx, logger, engine, stdin)
		if err != nil {
			return false, err
		}
		sources[stdinName] = internal.NewSourceCode(source)
		results = append(results, r)
	}

	failed := false
	for _, r := range results {
		if r.HasIssues() {
			failed = true
		}
	}

	if out.json {
		return failed, writeJSON(results, out.path, w)
	}
	printResults(logger, results, sources, out.issuesOnly, w)
	return failed, nil
}

func processStdin(ctx context.Context, logger *zap.Logger, engine tokenize.TokenizeEngine, stdin io.Reader) (tt.Result, []byte, error) {
	source, err := io.ReadAll(stdin)
	if err != nil {
		return tt.Result{}, nil, fmt.Errorf("error reading standard input: %w", err)
	}
	results, err := tokenize.ProcessSources(ctx, logger, engine, [][]byte{source}, tokenize.ProcessSource)
	if err != nil {
		return tt.Result{}, nil, err
	}
	result := results[0]
	result.Filename = stdinName
	for i := range result.Issues {
		result.Issues[i].Filename = stdinName
	}
	return result, source, nil
}

func printResults(logger *zap.Logger, results []tt.Result, sources map[string]*internal.SourceCode, issuesOnly bool, w io.Writer) {
	for _, r := range results {
		if !issuesOnly {
			fmt.Fprintf(w, "%s:\n", r.Filename)
			fmt.Fprint(w, internal.FormatTokens(r))
		}
		if !r.HasIssues() {
			continue
		}
		sourceCode, ok := sources[r.Filename]
		if !ok {
			var err error
			sourceCode, err = internal.ReadSourceCode(r.Filename)
			if err != nil {
				logger.Error("Error reading source file", zap.String("file", r.Filename), zap.Error(err))
			}
		}
		fmt.Fprint(w, internal.FormatIssuesWithArrows(r.Issues, sourceCode))
	}
}

func writeJSON(results []tt.Result, path string, w io.Writer) error {
	d, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshalling results to JSON: %w", err)
	}
	if path == "" {
		_, err = fmt.Fprintln(w, string(d))
		return err
	}
	if err := os.WriteFile(path, d, 0o644); err != nil {
		return fmt.Errorf("error writing JSON output file: %w", err)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
