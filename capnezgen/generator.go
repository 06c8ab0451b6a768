// Package capnezgen drives Cap'n Proto schema generation: it classifies a
// collected declaration set, maps host types onto schema constructs, orders
// record declarations by dependency, renders the schema document, and hands
// it to the external compiler.
//
// The pipeline is a single-threaded batch: scan, classify, map, resolve,
// emit, hand off. The registry must be fully populated before any field is
// mapped, so the stages run strictly in sequence and share no state across
// runs.
package capnezgen

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/0xWOLAND/capnez/capnezgen/capnp"
	"github.com/0xWOLAND/capnez/capnezgen/compiler"
	"github.com/0xWOLAND/capnez/capnezgen/ir"
	"github.com/0xWOLAND/capnez/capnezgen/sink"
)

// Result describes a completed generation run.
type Result struct {
	// SchemaPath is the path of the written schema file.
	SchemaPath string

	// Schema is the rendered schema text.
	Schema []byte

	// Compiled is true when the external compiler was invoked.
	Compiled bool

	// Warnings contains non-fatal issues collected while the declaration
	// set was built.
	Warnings []ir.Warning
}

// EmitSchema runs the in-memory part of the pipeline: registry pre-pass,
// type mapping, dependency resolution, and emission. It writes nothing.
// Identical declaration sets produce byte-identical output.
func EmitSchema(decls *ir.DeclarationSet, fileID uint64) ([]byte, error) {
	registry := ir.BuildRegistry(decls)

	mapper := capnp.NewMapper(registry)
	set, err := mapper.MapSet(decls)
	if err != nil {
		return nil, err
	}

	ordered, err := capnp.ResolveOrder(set)
	if err != nil {
		return nil, err
	}

	em := &capnp.Emitter{FileID: fileID}
	return em.Emit(set, ordered), nil
}

// Generate runs the full pipeline against cfg: emit the schema, write it
// through a filesystem sink under cfg.OutDir, and invoke the external
// compiler unless disabled. The first failure aborts the run; no partial
// schema file is left behind.
func Generate(ctx context.Context, decls *ir.DeclarationSet, cfg *Config) (*Result, error) {
	cfg = applyConfigDefaults(cfg)
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return generate(ctx, decls, cfg, sink.NewFilesystemSink(cfg.OutDir))
}

// GenerateTo is Generate with a caller-supplied sink. The compiler handoff
// only runs for filesystem sinks, since the external compiler reads the
// schema from disk.
func GenerateTo(ctx context.Context, decls *ir.DeclarationSet, cfg *Config, out sink.OutputSink) (*Result, error) {
	cfg = applyConfigDefaults(cfg)
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return generate(ctx, decls, cfg, out)
}

func generate(ctx context.Context, decls *ir.DeclarationSet, cfg *Config, out sink.OutputSink) (*Result, error) {
	schema, err := EmitSchema(decls, cfg.FileID)
	if err != nil {
		return nil, fmt.Errorf("failed to build schema: %w", err)
	}

	if err := out.WriteFile(ctx, cfg.SchemaFile, schema); err != nil {
		return nil, &ir.Error{
			Code:    ir.ErrIOFailure,
			Message: "failed to write schema file " + cfg.SchemaFile,
			Cause:   err,
		}
	}

	result := &Result{
		SchemaPath: filepath.Join(cfg.OutDir, cfg.SchemaFile),
		Schema:     schema,
		Warnings:   decls.Warnings,
	}

	fsSink, onDisk := out.(*sink.FilesystemSink)
	if *cfg.Compile && onDisk {
		cmd := &compiler.Command{
			SchemaFile: filepath.Join(fsSink.Root, cfg.SchemaFile),
			OutputDir:  fsSink.Root,
			Bin:        cfg.CompilerBin,
			Output:     cfg.CompilerOutput,
		}
		if err := cmd.Run(ctx); err != nil {
			return nil, err
		}
		result.Compiled = true
	}

	return result, nil
}
