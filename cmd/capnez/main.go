// Command capnez generates Cap'n Proto schemas from annotated Go
// declarations and drives the external capnp compiler over the result.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/0xWOLAND/capnez/capnezgen"
	"github.com/0xWOLAND/capnez/capnezgen/provider"
)

func main() {
	root := &cobra.Command{
		Use:   "capnez",
		Short: "Cap'n Proto schema synthesizer for Go declarations",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.AddCommand(newGenerateCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// generateOptions holds flags for the generate command.
type generateOptions struct {
	configPath string
	outDir     string
	schemaFile string
	lang       string
	noCompile  bool
	verbose    bool
}

func newGenerateCommand() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate [packages...]",
		Short: "Generate a Cap'n Proto schema from annotated Go declarations",
		Long: `Generate scans Go packages for declarations carrying capnez marker
comments (//capnez:schema, //capnez:bytes), synthesizes a Cap'n Proto
schema document from them, and invokes the capnp compiler on the result.

Package patterns follow go list syntax (e.g. ./... or a full import path).
Patterns given as arguments extend any configured in the config file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file path")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "output directory for the schema and bindings")
	cmd.Flags().StringVar(&opts.schemaFile, "schema-file", "", "schema file name within the output directory")
	cmd.Flags().StringVar(&opts.lang, "lang", "", "capnp compiler output language (default c++)")
	cmd.Flags().BoolVar(&opts.noCompile, "no-compile", false, "write the schema without running the capnp compiler")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "report progress to stderr")

	return cmd
}

func runGenerate(ctx context.Context, opts *generateOptions, args []string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := &capnezgen.Config{}
	if opts.configPath != "" {
		loaded, err := capnezgen.LoadConfig(opts.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	// Flags override the config file.
	if opts.outDir != "" {
		cfg.OutDir = opts.outDir
	}
	if opts.schemaFile != "" {
		cfg.SchemaFile = opts.schemaFile
	}
	if opts.lang != "" {
		cfg.CompilerOutput = opts.lang
	}
	if opts.noCompile {
		compile := false
		cfg.Compile = &compile
	}
	cfg.Packages = append(cfg.Packages, args...)

	if len(cfg.Packages) == 0 {
		return fmt.Errorf("no packages to scan: pass package patterns or set packages in the config")
	}

	if opts.verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "scanning %d package pattern(s)\n", len(cfg.Packages))
	}

	decls, err := provider.Collect(ctx, provider.Options{Packages: cfg.Packages})
	if err != nil {
		return err
	}

	result, err := capnezgen.Generate(ctx, decls, cfg)
	if err != nil {
		return err
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s: %s\n", w.Code, w.Message)
	}
	if opts.verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", result.SchemaPath, len(result.Schema))
		if result.Compiled {
			fmt.Fprintf(cmd.ErrOrStderr(), "compiled bindings with capnp\n")
		}
	}

	return nil
}
