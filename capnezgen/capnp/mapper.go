// Package capnp maps declaration-model types onto Cap'n Proto schema
// constructs, orders record declarations by their structural dependencies,
// and renders the ordered set into schema text.
package capnp

import (
	"github.com/0xWOLAND/capnez/capnezgen/ir"
)

// primitives is the fixed host-name table. Anything outside it is either a
// container shape or a named-type reference classified by the registry.
var primitives = map[string]ir.PrimitiveKind{
	"string":  ir.PrimText,
	"uint32":  ir.PrimUInt32,
	"uint64":  ir.PrimUInt64,
	"bool":    ir.PrimBool,
	"float32": ir.PrimFloat32,
	"float64": ir.PrimFloat64,
}

// Mapper converts host type expressions into schema type nodes. It consults
// the registry, which must be fully populated before the first Map call:
// forward references are legal in the declaration set, so classification
// with a partially built registry would silently misclassify them.
type Mapper struct {
	registry *ir.Registry
}

// NewMapper returns a mapper backed by the given registry.
func NewMapper(registry *ir.Registry) *Mapper {
	return &Mapper{registry: registry}
}

// Map converts one host type. It is total over the supported shapes and
// returns a typed UNSUPPORTED_TYPE or MISSING_TYPE_PARAMETER failure for
// anything else; there is no silent coercion. The typeName and member
// arguments identify the declaration position for error reporting only.
func (m *Mapper) Map(t ir.HostType, typeName, member string) (ir.SchemaType, error) {
	switch t.Kind {
	case ir.KindNamed:
		if t.Name == "" {
			return nil, &ir.Error{
				Code:     ir.ErrUnsupportedType,
				Message:  "named type without a name",
				TypeName: typeName,
				Member:   member,
			}
		}
		if prim, ok := primitives[t.Name]; ok {
			return ir.PrimitiveType{Prim: prim}, nil
		}
		switch m.registry.Classify(t.Name) {
		case ir.ClassOpaqueOnly:
			return ir.OpaqueBytesType{Name: t.Name}, nil
		default:
			// SchemaNative, or Unknown as an optimistic forward
			// reference checked during dependency resolution.
			return ir.RecordRefType{Name: t.Name}, nil
		}

	case ir.KindOptional:
		if t.Elem == nil {
			return nil, &ir.Error{
				Code:     ir.ErrMissingTypeParameter,
				Message:  "optional container requires an element type",
				TypeName: typeName,
				Member:   member,
			}
		}
		inner, err := m.Map(*t.Elem, typeName, member)
		if err != nil {
			return nil, err
		}
		return ir.OptionalType{Inner: inner}, nil

	case ir.KindList:
		if t.Elem == nil {
			return nil, &ir.Error{
				Code:     ir.ErrMissingTypeParameter,
				Message:  "sequence container requires an element type",
				TypeName: typeName,
				Member:   member,
			}
		}
		inner, err := m.Map(*t.Elem, typeName, member)
		if err != nil {
			return nil, err
		}
		return ir.ListType{Inner: inner}, nil

	default:
		return nil, &ir.Error{
			Code:     ir.ErrUnsupportedType,
			Message:  "unsupported host type shape " + t.Kind.String(),
			TypeName: typeName,
			Member:   member,
		}
	}
}

// MapSet maps every declaration in the set. It fails on the first error;
// the returned MappedSet preserves declaration order throughout.
func (m *Mapper) MapSet(decls *ir.DeclarationSet) (*ir.MappedSet, error) {
	out := &ir.MappedSet{}

	for _, rec := range decls.Records {
		if !rec.SchemaNative() {
			// Opaque-only records never appear as declarations;
			// reference sites carry them as raw bytes.
			continue
		}
		mapped := ir.MappedRecord{Name: rec.Name}
		for i, f := range rec.Fields {
			ft, err := m.Map(f.Type, rec.Name, f.Name)
			if err != nil {
				return nil, err
			}
			mapped.Fields = append(mapped.Fields, ir.MappedField{
				Name:    f.Name,
				Ordinal: i,
				Type:    ft,
			})
		}
		out.Records = append(out.Records, mapped)
	}

	for _, sum := range decls.Sums {
		mapped := ir.MappedSum{Name: sum.Name, Payload: sum.HasPayload()}
		for i, v := range sum.Variants {
			mv := ir.MappedVariant{Name: v.Name, Ordinal: i}
			switch len(v.Payload) {
			case 0:
				// bare variant
			case 1:
				vt, err := m.Map(v.Payload[0], sum.Name, v.Name)
				if err != nil {
					return nil, err
				}
				mv.Type = vt
			default:
				return nil, &ir.Error{
					Code:     ir.ErrMultiFieldVariant,
					Message:  "variant declares more than one payload field",
					TypeName: sum.Name,
					Member:   v.Name,
				}
			}
			mapped.Variants = append(mapped.Variants, mv)
		}
		out.Sums = append(out.Sums, mapped)
	}

	for _, iface := range decls.Interfaces {
		mapped := ir.MappedInterface{Name: iface.Name}
		for i, meth := range iface.Methods {
			mm := ir.MappedMethod{Name: meth.Name, Ordinal: i}
			for _, p := range meth.Params {
				pt, err := m.Map(p.Type, iface.Name, meth.Name)
				if err != nil {
					return nil, err
				}
				mm.Params = append(mm.Params, ir.MappedParam{Name: p.Name, Type: pt})
			}
			if meth.Return != nil {
				rt, err := m.Map(*meth.Return, iface.Name, meth.Name)
				if err != nil {
					return nil, err
				}
				mm.Return = rt
			}
			mapped.Methods = append(mapped.Methods, mm)
		}
		out.Interfaces = append(out.Interfaces, mapped)
	}

	return out, nil
}
