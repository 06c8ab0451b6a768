// Package compiler invokes the external Cap'n Proto compiler on an emitted
// schema file to produce native bindings. The compiler itself is a black
// box: this package only builds the invocation and classifies its failures.
package compiler

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/0xWOLAND/capnez/capnezgen/ir"
)

// DefaultBin is the compiler binary looked up on PATH when none is
// configured.
const DefaultBin = "capnp"

// Command describes one compiler invocation. Zero-value fields fall back to
// defaults; SchemaFile and OutputDir are required.
type Command struct {
	// SchemaFile is the path of the emitted schema document.
	SchemaFile string

	// OutputDir receives the generated bindings.
	OutputDir string

	// Bin is the compiler executable. Defaults to DefaultBin.
	Bin string

	// Output is the compiler output plugin (the language key after -o),
	// e.g. "c++" or "go". Defaults to "c++".
	Output string

	// SrcPrefix strips a path prefix from generated binding paths.
	// Defaults to the schema file's directory.
	SrcPrefix string
}

// Run executes the compiler. A missing binary, a non-zero exit, or any
// other spawn failure is reported as a COMPILER_HANDOFF_FAILURE carrying the
// compiler's stderr, and is fatal to the generation run.
func (c *Command) Run(ctx context.Context) error {
	bin := c.Bin
	if bin == "" {
		bin = DefaultBin
	}
	output := c.Output
	if output == "" {
		output = "c++"
	}
	srcPrefix := c.SrcPrefix
	if srcPrefix == "" {
		srcPrefix = filepath.Dir(c.SchemaFile)
	}

	args := []string{
		"compile",
		fmt.Sprintf("-o%s:%s", output, c.OutputDir),
		fmt.Sprintf("--src-prefix=%s", srcPrefix),
		c.SchemaFile,
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := "compiler invocation failed"
		if s := bytes.TrimSpace(stderr.Bytes()); len(s) > 0 {
			msg = msg + ": " + string(s)
		}
		return &ir.Error{
			Code:    ir.ErrCompilerHandoff,
			Message: msg,
			Cause:   err,
		}
	}
	return nil
}
