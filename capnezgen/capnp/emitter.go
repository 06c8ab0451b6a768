package capnp

import (
	"bytes"
	"fmt"

	"github.com/0xWOLAND/capnez/capnezgen/ir"
)

// DefaultHeader is the schema header line emitted when no file ID is
// configured. The identifier is synthetic and fixed so that re-runs over
// unchanged declarations produce diff-stable output.
const DefaultHeader = "@0xabcdefabcdefabcdef;"

// Emitter renders a mapped, ordered declaration set into Cap'n Proto schema
// text. Construction is purely deterministic string building: sum types
// first, records in resolver order, interfaces last, every member at its
// positional ordinal.
type Emitter struct {
	// FileID overrides the schema file identifier. Zero keeps the
	// DefaultHeader line.
	FileID uint64
}

// Emit renders the schema document. ordered must be the resolver's output;
// sum types and interfaces keep their declaration order from set.
func (e *Emitter) Emit(set *ir.MappedSet, ordered []ir.MappedRecord) []byte {
	var buf bytes.Buffer

	if e.FileID == 0 {
		buf.WriteString(DefaultHeader + "\n\n")
	} else {
		fmt.Fprintf(&buf, "@0x%x;\n\n", e.FileID)
	}

	for i := range set.Sums {
		e.emitSum(&buf, &set.Sums[i])
	}
	for i := range ordered {
		e.emitRecord(&buf, &ordered[i])
	}
	for i := range set.Interfaces {
		e.emitInterface(&buf, &set.Interfaces[i])
	}

	return buf.Bytes()
}

// emitSum writes one sum type. A sum with no payload-carrying variant is a
// plain enum; a sum with any payload becomes a struct in which every variant
// is a field, typed as its payload or Void. The representation is uniform
// per type, never mixed per variant.
func (e *Emitter) emitSum(buf *bytes.Buffer, sum *ir.MappedSum) {
	if !sum.Payload {
		fmt.Fprintf(buf, "enum %s {\n", TypeName(sum.Name))
		for _, v := range sum.Variants {
			fmt.Fprintf(buf, "  %s @%d;\n", MemberName(v.Name), v.Ordinal)
		}
		buf.WriteString("}\n\n")
		return
	}

	fmt.Fprintf(buf, "struct %s {\n", TypeName(sum.Name))
	for _, v := range sum.Variants {
		ty := "Void"
		if v.Type != nil {
			ty = renderType(v.Type)
		}
		fmt.Fprintf(buf, "  %s @%d :%s;\n", MemberName(v.Name), v.Ordinal, ty)
	}
	buf.WriteString("}\n\n")
}

func (e *Emitter) emitRecord(buf *bytes.Buffer, rec *ir.MappedRecord) {
	fmt.Fprintf(buf, "struct %s {\n", TypeName(rec.Name))
	for _, f := range rec.Fields {
		fmt.Fprintf(buf, "  %s @%d :%s;\n", MemberName(f.Name), f.Ordinal, renderType(f.Type))
	}
	buf.WriteString("}\n\n")
}

func (e *Emitter) emitInterface(buf *bytes.Buffer, iface *ir.MappedInterface) {
	fmt.Fprintf(buf, "interface %s {\n", TypeName(iface.Name))
	for _, m := range iface.Methods {
		fmt.Fprintf(buf, "  %s @%d (", MemberName(m.Name), m.Ordinal)
		for i, p := range m.Params {
			if i > 0 {
				buf.WriteString(", ")
			}
			fmt.Fprintf(buf, "%s :%s", MemberName(p.Name), renderType(p.Type))
		}
		buf.WriteString(")")
		if m.Return != nil {
			fmt.Fprintf(buf, " -> %s", renderType(m.Return))
		}
		buf.WriteString(";\n")
	}
	buf.WriteString("}\n\n")
}

// renderType renders a schema type node to its textual form. The node set
// is closed, so the switch is exhaustive.
func renderType(t ir.SchemaType) string {
	switch v := t.(type) {
	case ir.PrimitiveType:
		return v.Prim.Keyword()
	case ir.RecordRefType:
		return TypeName(v.Name)
	case ir.ListType:
		return "List(" + renderType(v.Inner) + ")"
	case ir.OptionalType:
		return "union {\n  value @0 :" + renderType(v.Inner) + ";\n  none @1 :Void;\n}"
	case ir.OpaqueBytesType:
		return "List(UInt8)"
	default:
		return "Void"
	}
}
