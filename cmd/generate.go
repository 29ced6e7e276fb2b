package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/mxml/formatter"
	"github.com/gnolang/mxml/generator"
)

var (
	watch        bool
	pkgName      string
	noCache      bool
	cleanCache   bool
	showProgress bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [paths...]",
	Short: "Generate Go factory functions for mixin files",
	Long: `Compiles every mixin file found under the given paths and writes a Go
file next to each one declaring one factory function per mixin.
Example) mxml generate --pkg views ./views`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		config := loadConfig()
		if pkgName != "" {
			config.Package = pkgName
		}
		if noCache {
			config.CacheDir = ""
		}

		var opts []generator.Option
		if showProgress {
			opts = append(opts, generator.WithProgress(os.Stderr))
		}
		gen, err := generator.New(config, logger, opts...)
		if err != nil {
			logger.Fatal("Failed to initialize generator", zap.Error(err))
		}
		if cleanCache {
			if err := gen.ClearCache(); err != nil {
				logger.Fatal("Failed to clear cache", zap.Error(err))
			}
		}

		if watch {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			runWatch(ctx, gen, args)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		runWithTimeout(ctx, func() {
			failed, err := runGenerate(ctx, os.Stdout, gen, args)
			if err != nil {
				logger.Error("Error processing files", zap.Error(err))
				os.Exit(1)
			}
			if failed > 0 {
				os.Exit(1)
			}
		})
	},
}

func init() {
	generateCmd.Flags().BoolVarP(&watch, "watch", "w", false, "Regenerate files when they change")
	generateCmd.Flags().StringVar(&pkgName, "pkg", "", "Package name of generated files (default: source directory name)")
	generateCmd.Flags().BoolVar(&noCache, "no-cache", false, "Ignore the cache_dir setting")
	generateCmd.Flags().BoolVar(&cleanCache, "clean", false, "Drop every cached output before generating")
	generateCmd.Flags().BoolVar(&showProgress, "progress", false, "Show a progress bar")
}

// runGenerate processes paths and reports the result of every file on w.
// It returns the number of files that failed to compile.
func runGenerate(ctx context.Context, w io.Writer, gen *generator.Generator, paths []string) (int, error) {
	results, err := gen.ProcessFiles(ctx, paths)
	if err != nil {
		return 0, err
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Source < results[j].Source })

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			printCompileError(w, res)
			continue
		}
		reportResult(w, res)
	}
	return failed, nil
}

func runWatch(ctx context.Context, gen *generator.Generator, dirs []string) {
	if _, err := runGenerate(ctx, os.Stdout, gen, dirs); err != nil {
		logger.Error("Error processing files", zap.Error(err))
	}
	fmt.Println("watching for changes, press Ctrl+C to stop")

	err := gen.Watch(ctx, dirs, func(res generator.Result) {
		if res.Err != nil {
			printCompileError(os.Stdout, res)
			return
		}
		reportResult(os.Stdout, res)
	})
	if err != nil {
		logger.Fatal("Watch failed", zap.Error(err))
	}
}

func reportResult(w io.Writer, res generator.Result) {
	state := "generated"
	if res.Cached {
		state = "up to date"
	}
	fmt.Fprintf(w, "%s: %s (%d mixins)\n", state, res.Output, res.Mixins)
}

func printCompileError(w io.Writer, res generator.Result) {
	src, err := os.ReadFile(res.Source)
	if err != nil {
		logger.Error("Error reading source file", zap.String("file", res.Source), zap.Error(err))
		return
	}
	fmt.Fprint(w, formatter.FormatError(res.Source, string(src), res.Err))
}
