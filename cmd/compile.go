package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/mxml/emitter"
	"github.com/gnolang/mxml/fme"
	"github.com/gnolang/mxml/formatter"
	"github.com/gnolang/mxml/generator"
)

var (
	setValues     []string
	compileFormat string
	compileMixin  string
)

var compileCmd = &cobra.Command{
	Use:   "compile FILE",
	Short: "Compile a mixin file and print the resulting specs",
	Long: `Compiles every mixin declared in FILE, binds the values given with --set
and prints the find/match/edit spec of each one.
Example) mxml compile --set message="Hello" tooltip.mixin`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		opts := compileOptions{
			Format: compileFormat,
			Mixin:  compileMixin,
		}
		values, err := parseSetValues(setValues)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		opts.Values = values

		runWithTimeout(ctx, func() {
			if err := runCompile(os.Stdout, loadConfig(), args[0], opts); err != nil {
				logger.Error("Error compiling file", zap.String("file", args[0]), zap.Error(err))
				os.Exit(1)
			}
		})
	},
}

func init() {
	compileCmd.Flags().StringArrayVar(&setValues, "set", nil, "Bind a parameter value (name=value), repeatable")
	compileCmd.Flags().StringVarP(&compileFormat, "format", "f", "yaml", "Output format: yaml, json, flat or go")
	compileCmd.Flags().StringVar(&compileMixin, "mixin", "", "Only compile the named mixin")
}

type compileOptions struct {
	Format string
	Mixin  string
	Values map[string]string
}

// compiledSpec is one entry of the compile output.
type compiledSpec struct {
	Mixin string    `yaml:"mixin" json:"mixin"`
	Spec  *fme.Spec `yaml:"spec" json:"spec"`
}

type compiledFlat struct {
	Mixin string                   `yaml:"mixin" json:"mixin"`
	Flat  fme.FindMatchEditElement `yaml:"flat" json:"flat"`
}

func parseSetValues(pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q, expected name=value", pair)
		}
		values[name] = value
	}
	return values, nil
}

func runCompile(w io.Writer, config generator.Config, path string, opts compileOptions) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	gen, err := generator.New(config, logger)
	if err != nil {
		return err
	}
	templates, err := gen.Compile(src)
	if err != nil {
		fmt.Fprint(w, formatter.FormatError(path, string(src), err))
		return fmt.Errorf("%s has errors", path)
	}

	if opts.Mixin != "" {
		templates, err = selectMixin(templates, opts.Mixin)
		if err != nil {
			return err
		}
	}

	if opts.Format == "go" {
		out, err := emitter.GoFile(goPackage(config), filepath.Base(path), templates...)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	}

	if err := checkValueNames(templates, opts.Values); err != nil {
		return err
	}

	specs := make([]compiledSpec, 0, len(templates))
	for _, t := range templates {
		args, err := t.Args(valuesFor(t, opts.Values))
		if err != nil {
			return err
		}
		spec, err := t.Generate(args...)
		if err != nil {
			return err
		}
		specs = append(specs, compiledSpec{Mixin: t.Name, Spec: spec})
	}

	var out []byte
	switch opts.Format {
	case "yaml", "":
		out, err = fme.YAML(specs)
	case "json":
		out, err = fme.JSON(specs)
	case "flat":
		flat := make([]compiledFlat, len(specs))
		for i, s := range specs {
			flat[i] = compiledFlat{Mixin: s.Mixin, Flat: s.Spec.Flatten()}
		}
		out, err = fme.YAML(flat)
	default:
		return fmt.Errorf("unknown format %q", opts.Format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func selectMixin(templates []*emitter.Template, name string) ([]*emitter.Template, error) {
	for _, t := range templates {
		if t.Name == name {
			return []*emitter.Template{t}, nil
		}
	}
	return nil, fmt.Errorf("no mixin named %s", name)
}

// checkValueNames rejects --set names that are no parameter of any mixin.
func checkValueNames(templates []*emitter.Template, values map[string]string) error {
	known := make(map[string]bool)
	for _, t := range templates {
		for _, p := range t.Params {
			known[p] = true
		}
	}
	for name := range values {
		if !known[name] {
			return fmt.Errorf("no mixin has a parameter %q", name)
		}
	}
	return nil
}

func valuesFor(t *emitter.Template, values map[string]string) map[string]string {
	own := make(map[string]string, len(t.Params))
	for _, p := range t.Params {
		if v, ok := values[p]; ok {
			own[p] = v
		}
	}
	return own
}

func goPackage(config generator.Config) string {
	if config.Package != "" {
		return config.Package
	}
	return "mixins"
}
