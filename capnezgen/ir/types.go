package ir

// SchemaKind identifies the category of a schema type node.
type SchemaKind int

const (
	SchemaPrimitive SchemaKind = iota
	SchemaRecordRef
	SchemaList
	SchemaOptional
	SchemaOpaqueBytes
)

// String returns the string representation of the schema kind.
func (k SchemaKind) String() string {
	switch k {
	case SchemaPrimitive:
		return "Primitive"
	case SchemaRecordRef:
		return "RecordRef"
	case SchemaList:
		return "List"
	case SchemaOptional:
		return "Optional"
	case SchemaOpaqueBytes:
		return "OpaqueBytes"
	default:
		return "Unknown"
	}
}

// PrimitiveKind enumerates the fixed primitive set of the target IDL.
type PrimitiveKind int

const (
	PrimText PrimitiveKind = iota
	PrimUInt32
	PrimUInt64
	PrimBool
	PrimFloat32
	PrimFloat64
)

// Keyword returns the Cap'n Proto type keyword for the primitive.
func (p PrimitiveKind) Keyword() string {
	switch p {
	case PrimText:
		return "Text"
	case PrimUInt32:
		return "UInt32"
	case PrimUInt64:
		return "UInt64"
	case PrimBool:
		return "Bool"
	case PrimFloat32:
		return "Float32"
	case PrimFloat64:
		return "Float64"
	default:
		return "Void"
	}
}

// SchemaType is the base interface for all schema-facing type nodes.
// The variant set is closed: Primitive, RecordRef, List, Optional, and
// OpaqueBytes are the only implementations.
type SchemaType interface {
	SchemaKind() SchemaKind

	// Ensure only types in this package can implement SchemaType.
	sealed()
}

// PrimitiveType is a fixed-keyword primitive.
type PrimitiveType struct {
	Prim PrimitiveKind
}

func (PrimitiveType) SchemaKind() SchemaKind { return SchemaPrimitive }
func (PrimitiveType) sealed()                {}

// RecordRefType references another declared type by name. The target may be
// a record, a sum type, or (optimistically) a forward reference that the
// resolver later checks for existence.
type RecordRefType struct {
	Name string
}

func (RecordRefType) SchemaKind() SchemaKind { return SchemaRecordRef }
func (RecordRefType) sealed()                {}

// ListType is a homogeneous sequence.
type ListType struct {
	Inner SchemaType
}

func (ListType) SchemaKind() SchemaKind { return SchemaList }
func (ListType) sealed()                {}

// OptionalType is rendered as an inline two-branch union: a present branch
// carrying Inner at ordinal 0 and an absent branch at ordinal 1.
type OptionalType struct {
	Inner SchemaType
}

func (OptionalType) SchemaKind() SchemaKind { return SchemaOptional }
func (OptionalType) sealed()                {}

// OpaqueBytesType is a named type with no first-class schema representation,
// carried as a raw byte sequence produced by an out-of-band serializer.
type OpaqueBytesType struct {
	Name string
}

func (OpaqueBytesType) SchemaKind() SchemaKind { return SchemaOpaqueBytes }
func (OpaqueBytesType) sealed()                {}

// Unwrap strips any nesting of List and Optional wrappers and returns the
// innermost type. Used for dependency analysis, where wrappers are
// transparent.
func Unwrap(t SchemaType) SchemaType {
	for {
		switch v := t.(type) {
		case ListType:
			t = v.Inner
		case OptionalType:
			t = v.Inner
		default:
			return t
		}
	}
}

// MappedField is a record field after type mapping.
type MappedField struct {
	Name    string
	Ordinal int
	Type    SchemaType
}

// MappedRecord is a record declaration after type mapping, ready for
// dependency resolution and emission.
type MappedRecord struct {
	Name   string
	Fields []MappedField
}

// MappedVariant is a sum-type variant after payload mapping. Type is nil for
// bare variants.
type MappedVariant struct {
	Name    string
	Ordinal int
	Type    SchemaType
}

// MappedSum is a sum declaration after mapping. Payload reports whether any
// variant carries data, which fixes the uniform emitted representation.
type MappedSum struct {
	Name     string
	Variants []MappedVariant
	Payload  bool
}

// MappedParam is an interface method parameter after mapping.
type MappedParam struct {
	Name string
	Type SchemaType
}

// MappedMethod is an interface method after mapping. Return is nil for
// methods without a result.
type MappedMethod struct {
	Name    string
	Ordinal int
	Params  []MappedParam
	Return  SchemaType
}

// MappedInterface is an interface declaration after mapping.
type MappedInterface struct {
	Name    string
	Methods []MappedMethod
}

// MappedSet holds the fully mapped declaration set handed from the mapper to
// the resolver and emitter.
type MappedSet struct {
	Records    []MappedRecord
	Sums       []MappedSum
	Interfaces []MappedInterface
}
