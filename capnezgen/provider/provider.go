// Package provider collects annotated declarations from Go source and
// converts them to the declaration model. It is one possible front-end; the
// generation pipeline accepts any ir.DeclarationSet regardless of origin.
//
// Declarations opt in with marker comments in their doc block:
//
//	//capnez:schema
//	type Person struct { ... }
//
// gives the type a first-class schema representation, and
//
//	//capnez:bytes
//	type Snapshot struct { ... }
//
// marks it as carried opaquely (an out-of-band serializer produces the
// bytes). A type may carry both markers; schema support takes precedence
// when fields reference it.
//
// A marked defined type with an accompanying const group becomes a
// payload-less sum type; a marked interface becomes a service interface.
// Payload-carrying sum types have no Go-native declaration form and enter
// the pipeline through the ir API directly.
package provider

import (
	"context"
	"fmt"
	"go/ast"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/0xWOLAND/capnez/capnezgen/ir"
)

const (
	markerSchema = "capnez:schema"
	markerBytes  = "capnez:bytes"
)

// Options configures source collection.
type Options struct {
	// Packages are the Go package patterns to scan.
	Packages []string

	// Dir is the working directory for package loading. Empty means the
	// process working directory.
	Dir string
}

// Collect loads the packages and returns the declaration set in source
// order: files in package order, declarations in file order. That order is
// what the rest of the pipeline keys its determinism on.
func Collect(ctx context.Context, opts Options) (*ir.DeclarationSet, error) {
	if len(opts.Packages) == 0 {
		return nil, fmt.Errorf("no packages specified")
	}

	cfg := &packages.Config{
		Context: ctx,
		Dir:     opts.Dir,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedCompiledGoFiles |
			packages.NeedSyntax,
	}

	pkgs, err := packages.Load(cfg, opts.Packages...)
	if err != nil {
		return nil, &ir.Error{
			Code:    ir.ErrIOFailure,
			Message: "failed to load packages",
			Cause:   err,
		}
	}
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, &ir.Error{
				Code:    ir.ErrIOFailure,
				Message: fmt.Sprintf("package %s has errors: %v", pkg.PkgPath, pkg.Errors),
			}
		}
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found")
	}

	c := &collector{decls: &ir.DeclarationSet{}}
	for _, pkg := range pkgs {
		if err := c.collectPackage(pkg); err != nil {
			return nil, err
		}
	}
	return c.decls, nil
}

// collector accumulates declarations while scanning package syntax.
type collector struct {
	decls *ir.DeclarationSet

	// enumTypes maps marked defined-type names awaiting const-group
	// variants, per package. enumOrder preserves declaration order, which
	// the map alone cannot.
	enumTypes map[string]*ir.SumDecl
	enumOrder []string
}

func (c *collector) collectPackage(pkg *packages.Package) error {
	c.enumTypes = make(map[string]*ir.SumDecl)
	c.enumOrder = nil

	// Two sweeps per package: type declarations first, then const groups,
	// so a const block above its enum type still binds to it.
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok {
				continue
			}
			if err := c.collectTypes(gen); err != nil {
				return err
			}
		}
	}
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok.String() != "const" {
				continue
			}
			c.collectConsts(gen)
		}
	}

	for _, name := range c.enumOrder {
		sum := c.enumTypes[name]
		if len(sum.Variants) == 0 {
			c.decls.AddWarning(ir.Warning{
				Code:    "empty_enum",
				Message: "type " + sum.Name + " is marked for schema support but has no const variants",
			})
			continue
		}
		c.decls.AddSum(*sum)
	}
	return nil
}

func (c *collector) collectTypes(gen *ast.GenDecl) error {
	if gen.Tok.String() != "type" {
		return nil
	}
	for _, spec := range gen.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}
		schema, opaque := markers(gen.Doc, ts.Doc)
		if !schema && !opaque {
			continue
		}

		switch t := ts.Type.(type) {
		case *ast.StructType:
			rec, err := c.buildRecord(ts.Name.Name, t)
			if err != nil {
				return err
			}
			rec.Schema = schema
			rec.Opaque = opaque
			c.decls.AddRecord(rec)

		case *ast.InterfaceType:
			iface, err := c.buildInterface(ts.Name.Name, t)
			if err != nil {
				return err
			}
			c.decls.AddInterface(iface)

		default:
			// A marked defined type collects its const group as
			// payload-less variants.
			if _, seen := c.enumTypes[ts.Name.Name]; !seen {
				c.enumOrder = append(c.enumOrder, ts.Name.Name)
			}
			c.enumTypes[ts.Name.Name] = &ir.SumDecl{Name: ts.Name.Name}
		}
	}
	return nil
}

func (c *collector) collectConsts(gen *ast.GenDecl) {
	// Within one const block, an untyped spec continues the type of the
	// previous spec (the iota idiom).
	current := ""
	for _, spec := range gen.Specs {
		vs, ok := spec.(*ast.ValueSpec)
		if !ok {
			continue
		}
		if ident, ok := vs.Type.(*ast.Ident); ok {
			current = ident.Name
		} else if vs.Type != nil {
			current = ""
		}
		sum, ok := c.enumTypes[current]
		if !ok {
			continue
		}
		for _, name := range vs.Names {
			if name.Name == "_" {
				continue
			}
			sum.Variants = append(sum.Variants, ir.Variant{Name: name.Name})
		}
	}
}

func (c *collector) buildRecord(name string, st *ast.StructType) (ir.RecordDecl, error) {
	rec := ir.RecordDecl{Name: name}
	for _, field := range st.Fields.List {
		if len(field.Names) == 0 {
			return rec, &ir.Error{
				Code:     ir.ErrUnsupportedType,
				Message:  "embedded fields are not supported",
				TypeName: name,
			}
		}
		ht, err := hostType(field.Type, name, field.Names[0].Name)
		if err != nil {
			return rec, err
		}
		for _, fn := range field.Names {
			rec.Fields = append(rec.Fields, ir.Field{Name: fn.Name, Type: ht})
		}
	}
	return rec, nil
}

func (c *collector) buildInterface(name string, it *ast.InterfaceType) (ir.InterfaceDecl, error) {
	iface := ir.InterfaceDecl{Name: name}
	for _, m := range it.Methods.List {
		ft, ok := m.Type.(*ast.FuncType)
		if !ok || len(m.Names) == 0 {
			return iface, &ir.Error{
				Code:     ir.ErrUnsupportedType,
				Message:  "embedded interfaces are not supported",
				TypeName: name,
			}
		}
		method := ir.Method{Name: m.Names[0].Name}

		if ft.Params != nil {
			for _, p := range ft.Params.List {
				pt, err := hostType(p.Type, name, method.Name)
				if err != nil {
					return iface, err
				}
				if len(p.Names) == 0 {
					return iface, &ir.Error{
						Code:     ir.ErrUnsupportedType,
						Message:  "interface method parameters must be named",
						TypeName: name,
						Member:   method.Name,
					}
				}
				for _, pn := range p.Names {
					method.Params = append(method.Params, ir.Param{Name: pn.Name, Type: pt})
				}
			}
		}

		if ft.Results != nil {
			switch len(ft.Results.List) {
			case 0:
			case 1:
				rt, err := hostType(ft.Results.List[0].Type, name, method.Name)
				if err != nil {
					return iface, err
				}
				method.Return = &rt
			default:
				return iface, &ir.Error{
					Code:     ir.ErrUnsupportedType,
					Message:  "interface methods support at most one result",
					TypeName: name,
					Member:   method.Name,
				}
			}
		}

		iface.Methods = append(iface.Methods, method)
	}
	return iface, nil
}

// hostType converts an AST type expression to the host type model.
// Pointers become optionals, slices and arrays become sequences, and named
// or qualified types keep their final identifier for registry lookup.
func hostType(expr ast.Expr, typeName, member string) (ir.HostType, error) {
	switch t := expr.(type) {
	case *ast.Ident:
		return ir.Named(t.Name), nil
	case *ast.SelectorExpr:
		return ir.Named(t.Sel.Name), nil
	case *ast.StarExpr:
		inner, err := hostType(t.X, typeName, member)
		if err != nil {
			return ir.HostType{}, err
		}
		return ir.Optional(inner), nil
	case *ast.ArrayType:
		inner, err := hostType(t.Elt, typeName, member)
		if err != nil {
			return ir.HostType{}, err
		}
		return ir.List(inner), nil
	default:
		return ir.HostType{}, &ir.Error{
			Code:     ir.ErrUnsupportedType,
			Message:  fmt.Sprintf("unsupported type expression %T", expr),
			TypeName: typeName,
			Member:   member,
		}
	}
}

// markers scans doc comments for capnez directives. Both the GenDecl doc and
// the TypeSpec doc are honored, since gofmt moves the comment depending on
// grouping.
func markers(docs ...*ast.CommentGroup) (schema, opaque bool) {
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		for _, line := range doc.List {
			text := strings.TrimPrefix(line.Text, "//")
			text = strings.TrimSpace(text)
			switch text {
			case markerSchema:
				schema = true
			case markerBytes:
				opaque = true
			}
		}
	}
	return schema, opaque
}
