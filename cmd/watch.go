package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/luthor/internal"
	tt "github.com/gnolang/luthor/internal/types"
	"github.com/gnolang/luthor/tokenize"
)

var watchDuration time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Re-tokenize files whenever they change",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			args = []string{"."}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if watchDuration > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, watchDuration)
			defer cancel()
		}

		engine, config, err := tokenize.New(cfgFile, "")
		if err != nil {
			logger.Fatal("Failed to initialize tokenizer", zap.Error(err))
		}

		if err := runWatch(ctx, logger, engine, config, args); err != nil {
			logger.Error("Watch stopped", zap.Error(err))
			os.Exit(1)
		}
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchDuration, "for", 0, "Stop watching after this long (0 means until interrupted)")
}

func runWatch(ctx context.Context, logger *zap.Logger, engine *internal.Engine, config tokenize.Config, dirs []string) error {
	var mu sync.Mutex
	w, err := internal.NewWatcher(engine, logger, config.Extensions, func(r tt.Result) {
		mu.Lock()
		defer mu.Unlock()
		if !r.HasIssues() {
			fmt.Printf("%s: %d tokens\n", r.Filename, len(r.Tokens))
			return
		}
		sourceCode, err := internal.ReadSourceCode(r.Filename)
		if err != nil {
			logger.Error("Error reading source file", zap.String("file", r.Filename), zap.Error(err))
		}
		fmt.Print(internal.FormatIssuesWithArrows(r.Issues, sourceCode))
	})
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dirs...); err != nil {
		return err
	}
	logger.Info("Watching", zap.Strings("dirs", dirs))

	err = w.Run(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
