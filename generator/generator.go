// Package generator compiles mixin source files into Go files declaring one
// factory function per mixin.
package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/token"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gnolang/mxml"
	"github.com/gnolang/mxml/emitter"
	"github.com/gnolang/mxml/internal/cache"
	"github.com/gnolang/mxml/internal/scanner"
)

// Generator turns mixin files into Go files.
type Generator struct {
	cfg      Config
	logger   *zap.Logger
	cache    *cache.Cache
	progress io.Writer
	workers  int
}

type Option func(*Generator)

// WithProgress draws a progress bar on w while processing directories.
func WithProgress(w io.Writer) Option {
	return func(g *Generator) { g.progress = w }
}

// WithWorkers limits how many files are compiled at once.
func WithWorkers(n int) Option {
	return func(g *Generator) { g.workers = n }
}

// New returns a Generator for cfg. logger may be nil.
func New(cfg Config, logger *zap.Logger, opts ...Option) (*Generator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Generator{
		cfg:     cfg,
		logger:  logger,
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(g)
	}

	if cfg.CacheDir != "" {
		c, err := cache.New(cfg.CacheDir)
		if err != nil {
			return nil, err
		}
		c.SetMaxAge(cfg.CacheMaxAge)
		g.cache = c
	}
	return g, nil
}

// ClearCache drops every cached output. It is a no-op without a cache.
func (g *Generator) ClearCache() error {
	if g.cache == nil {
		return nil
	}
	return g.cache.InvalidateAll()
}

// Result describes the outcome for one source file.
type Result struct {
	Source string
	Output string
	Mixins int
	Cached bool
	// Err holds the compile errors of the file; the file was not written.
	Err error
}

// Compile parses and compiles every declaration in src with the configured
// options.
func (g *Generator) Compile(src []byte) ([]*emitter.Template, error) {
	return mxml.CompileFile(string(src), mxml.Options{StrictWildcard: g.cfg.StrictWildcard})
}

// GenerateSource compiles src and returns the Go file for it.
// name is the source file name used in the generated header.
func (g *Generator) GenerateSource(name string, src []byte, pkg string) ([]byte, int, error) {
	templates, err := g.Compile(src)
	if err != nil {
		return nil, 0, err
	}
	out, err := emitter.GoFile(pkg, filepath.Base(name), templates...)
	if err != nil {
		return nil, 0, err
	}
	return out, len(templates), nil
}

// GenerateFile compiles the file at path and writes path+Suffix.
// Compile errors are returned in Result.Err and remove any output left by an
// earlier run; the error return is for I/O.
func (g *Generator) GenerateFile(path string) (Result, error) {
	res := Result{Source: path, Output: path + g.cfg.Suffix}

	src, err := os.ReadFile(path)
	if err != nil {
		return res, err
	}
	pkg := g.packageName(path)
	hash := cache.Hash(src, g.cfg.fingerprint(pkg))

	if g.cache != nil {
		if entry, ok := g.cache.Get(path, hash); ok {
			if err := restoreOutput(res.Output, entry.Output); err != nil {
				return res, err
			}
			res.Mixins = entry.Mixins
			res.Cached = true
			g.logger.Debug("cache hit", zap.String("file", path))
			return res, nil
		}
	}

	out, n, err := g.GenerateSource(path, src, pkg)
	if err != nil {
		res.Err = err
		g.logger.Debug("compile failed", zap.String("file", path), zap.Error(err))
		if err := os.Remove(res.Output); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return res, err
		}
		return res, nil
	}
	res.Mixins = n

	if err := os.WriteFile(res.Output, out, 0o644); err != nil {
		return res, err
	}
	if g.cache != nil {
		if err := g.cache.Set(path, hash, out, n); err != nil {
			g.logger.Warn("failed to update cache", zap.String("file", path), zap.Error(err))
		}
	}
	g.logger.Debug("generated", zap.String("file", res.Output), zap.Int("mixins", n))
	return res, nil
}

// restoreOutput writes the cached output to path unless the file already
// holds it.
func restoreOutput(path string, output []byte) error {
	current, err := os.ReadFile(path)
	if err == nil && bytes.Equal(current, output) {
		return nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, output, 0o644)
}

// ProcessFiles runs ProcessPath for every path, in order.
func (g *Generator) ProcessFiles(ctx context.Context, paths []string) ([]Result, error) {
	var all []Result
	for _, path := range paths {
		results, err := g.ProcessPath(ctx, path)
		if err != nil {
			g.logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			return nil, err
		}
		all = append(all, results...)
	}
	return all, nil
}

// Files lists the mixin files path stands for: path itself, or every file
// with a configured extension below it.
func (g *Generator) Files(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}
	if !info.IsDir() {
		if !g.hasDesiredExtension(path) {
			return nil, fmt.Errorf("%s: not a mixin file (extensions %v)", path, g.cfg.Extensions)
		}
		return []string{path}, nil
	}
	scanned, err := scanner.New(path, g.cfg.Extensions...).Scan()
	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", path, err)
	}
	files := make([]string, len(scanned))
	for i, f := range scanned {
		files[i] = f.Path
	}
	return files, nil
}

// ProcessPath generates a single file, or every mixin file below a
// directory. Files are compiled concurrently; results keep the walk order.
func (g *Generator) ProcessPath(ctx context.Context, path string) ([]Result, error) {
	files, err := g.Files(path)
	if err != nil {
		return nil, err
	}

	var bar *progressbar.ProgressBar
	if g.progress != nil && len(files) > 1 {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(g.progress),
			progressbar.OptionSetDescription(path),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}))
	}

	results := make([]Result, len(files))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(max(g.workers, 1))
	for i, file := range files {
		if egCtx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			res, err := g.GenerateFile(file)
			if err != nil {
				g.logger.Error("Error processing file", zap.String("file", file), zap.Error(err))
				return err
			}
			results[i] = res
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return results, nil
}

func (g *Generator) hasDesiredExtension(path string) bool {
	return scanner.New("", g.cfg.Extensions...).IsTargetFile(path)
}

// packageName returns the configured package or one derived from the
// directory of path.
func (g *Generator) packageName(path string) string {
	if g.cfg.Package != "" {
		return g.cfg.Package
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "mixins"
	}
	return sanitizePackage(filepath.Base(filepath.Dir(abs)))
}

func sanitizePackage(dir string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, dir)
	if !token.IsIdentifier(name) {
		return "mixins"
	}
	return name
}
