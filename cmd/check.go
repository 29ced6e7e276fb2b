package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/mxml/formatter"
	"github.com/gnolang/mxml/generator"
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Validate mixin files without generating code",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		config := loadConfig()
		runWithTimeout(ctx, func() {
			failed, err := runCheck(os.Stdout, config, args)
			if err != nil {
				logger.Error("Error checking files", zap.Error(err))
				os.Exit(1)
			}
			if failed > 0 {
				os.Exit(1)
			}
		})
	},
}

// runCheck compiles every mixin file under paths and prints diagnostics for
// the ones that fail. It returns the number of failing files.
func runCheck(w io.Writer, config generator.Config, paths []string) (int, error) {
	gen, err := generator.New(config, logger)
	if err != nil {
		return 0, err
	}

	failed := 0
	for _, path := range paths {
		files, err := gen.Files(path)
		if err != nil {
			return failed, err
		}
		for _, file := range files {
			src, err := os.ReadFile(file)
			if err != nil {
				return failed, err
			}
			templates, err := gen.Compile(src)
			if err != nil {
				failed++
				fmt.Fprint(w, formatter.FormatError(filepath.ToSlash(file), string(src), err))
				continue
			}
			logger.Debug("ok", zap.String("file", file), zap.Int("mixins", len(templates)))
		}
	}
	return failed, nil
}
