package tokenize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/gnolang/luthor/internal"
	tt "github.com/gnolang/luthor/internal/types"
	"github.com/gnolang/luthor/scanner"
)

type TokenizeEngine interface {
	Run(filePath string) (tt.Result, error)
	RunSource(source []byte) (tt.Result, error)
	IgnoreKind(kind string)
}

// ProcessOptions controls how paths are expanded and reported.
type ProcessOptions struct {
	// Extensions selects files inside directories. Empty means all files.
	Extensions []string
	// Progress, when set, receives a progress bar for directory arguments.
	Progress io.Writer
	// Workers bounds concurrent files. Zero means runtime.NumCPU().
	Workers int
}

// New loads the configuration at configurationPath and builds an engine
// from it. A missing file at the default path falls back to DefaultConfig.
// A non-empty cacheDir enables the on-disk result cache.
func New(configurationPath string, cacheDir string) (*internal.Engine, Config, error) {
	config, err := loadConfiguration(configurationPath)
	if err != nil {
		return nil, config, err
	}

	registry, err := config.Registry()
	if err != nil {
		return nil, config, fmt.Errorf("error compiling token definitions: %w", err)
	}

	var opts []internal.EngineOption
	if cacheDir != "" {
		fingerprint, err := config.Fingerprint()
		if err != nil {
			return nil, config, err
		}
		cache, err := internal.NewCache(cacheDir, fingerprint)
		if err != nil {
			return nil, config, err
		}
		opts = append(opts, internal.WithCache(cache))
	}

	engine, err := internal.NewEngine(registry, opts...)
	if err != nil {
		return nil, config, err
	}
	for _, kind := range config.Skip {
		engine.IgnoreKind(kind)
	}
	return engine, config, nil
}

func loadConfiguration(configurationPath string) (Config, error) {
	if configurationPath == "" {
		configurationPath = DefaultConfigPath
	}
	config, err := ParseConfigurationFile(configurationPath)
	if errors.Is(err, os.ErrNotExist) && configurationPath == DefaultConfigPath {
		return DefaultConfig(), nil
	}
	return config, err
}

func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine TokenizeEngine,
	sources [][]byte,
	processor func(TokenizeEngine, []byte) (tt.Result, error),
) ([]tt.Result, error) {
	results := make([]tt.Result, 0, len(sources))
	for i, source := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := processor(engine, source)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.Int("source", i), zap.Error(err))
			}
			return nil, err
		}
		results = append(results, result)
	}

	return results, nil
}

func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine TokenizeEngine,
	paths []string,
	opts ProcessOptions,
	processor func(TokenizeEngine, string) (tt.Result, error),
) ([]tt.Result, error) {
	var allResults []tt.Result
	for _, path := range paths {
		results, err := ProcessPath(ctx, logger, engine, path, opts, processor)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return nil, err
		}
		allResults = append(allResults, results...)
	}

	return allResults, nil
}

// ProcessPath tokenizes a single file, or every matching file under a
// directory using a bounded pool of workers. Files in a directory that fail
// to process are logged and left out; results keep the scan order.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine TokenizeEngine,
	path string,
	opts ProcessOptions,
	processor func(TokenizeEngine, string) (tt.Result, error),
) ([]tt.Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		result, err := processor(engine, path)
		if err != nil {
			return nil, err
		}
		return []tt.Result{result}, nil
	}

	files, err := scanner.New(path, opts.Extensions...).Scan()
	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", path, err)
	}

	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionSetDescription(path),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}))
	}

	// limit the number of workers
	maxWorkers := opts.Workers
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}
	sem := make(chan struct{}, maxWorkers)

	results := make([]tt.Result, len(files))
	ok := make([]bool, len(files))
	var wg sync.WaitGroup

dispatch:
	for i, file := range files {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break dispatch
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, fp string) {
			defer wg.Done()
			defer func() { <-sem }()

			result, err := processor(engine, fp)
			if err != nil {
				if logger != nil {
					logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
				}
			} else {
				results[i] = result
				ok[i] = true
			}
			if bar != nil {
				_ = bar.Add(1)
			}
		}(i, file.Path)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	collected := make([]tt.Result, 0, len(files))
	for i := range files {
		if ok[i] {
			collected = append(collected, results[i])
		}
	}
	return collected, nil
}

func ProcessFile(engine TokenizeEngine, filePath string) (tt.Result, error) {
	return engine.Run(filePath)
}

func ProcessSource(engine TokenizeEngine, source []byte) (tt.Result, error) {
	return engine.RunSource(source)
}
