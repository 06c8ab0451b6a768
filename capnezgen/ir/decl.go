// Package ir defines the declaration model and the schema-facing type nodes
// for Cap'n Proto schema generation. Declarations are language-agnostic
// descriptions of host types that the generation pipeline maps, orders, and
// renders into schema text.
package ir

// HostKind identifies the shape of a host-language type expression.
type HostKind int

const (
	// KindNamed is a named type: a primitive (string, uint32, uint64, bool,
	// float32, float64) or a reference to another declared type.
	KindNamed HostKind = iota

	// KindOptional is a single-element "maybe" container (a pointer in Go,
	// Option in other hosts).
	KindOptional

	// KindList is a homogeneous sequence (slice or fixed-size array).
	KindList
)

// String returns the string representation of the host kind.
func (k HostKind) String() string {
	switch k {
	case KindNamed:
		return "Named"
	case KindOptional:
		return "Optional"
	case KindList:
		return "List"
	default:
		return "Unknown"
	}
}

// HostType is a host-language type expression attached to a field, variant
// payload, parameter, or return position.
//
// Named types carry Name and no Elem. Container types (Optional, List) carry
// Elem and no Name; a container without an element type is malformed and is
// rejected during mapping.
type HostType struct {
	Kind HostKind
	Name string
	Elem *HostType
}

// Named returns a named host type.
func Named(name string) HostType {
	return HostType{Kind: KindNamed, Name: name}
}

// Optional returns an optional container wrapping elem.
func Optional(elem HostType) HostType {
	return HostType{Kind: KindOptional, Elem: &elem}
}

// List returns a sequence container wrapping elem.
func List(elem HostType) HostType {
	return HostType{Kind: KindList, Elem: &elem}
}

// Field is a single named, ordered member of a record. Its ordinal is its
// zero-based position in the record's field list.
type Field struct {
	Name string
	Type HostType
}

// RecordDecl describes one record (struct) declaration.
type RecordDecl struct {
	// Name is the host identifier of the record.
	Name string

	// Fields in declaration order. Order determines ordinals.
	Fields []Field

	// Schema is true when the declaration requested first-class schema
	// representation.
	Schema bool

	// Opaque is true when the declaration requested the alternate,
	// out-of-band serialization mode. A record may set both flags;
	// Schema takes precedence during classification.
	Opaque bool
}

// SchemaNative reports whether the record gets a first-class schema
// declaration. A record with neither flag set defaults to schema support;
// only records declared exclusively for the opaque mode are excluded from
// emission and collapsed to bytes at reference sites.
func (r *RecordDecl) SchemaNative() bool {
	return r.Schema || !r.Opaque
}

// Variant is one alternative of a sum type. Payload holds the variant's
// payload types; zero payloads means a bare variant, exactly one is a
// payload-carrying variant, and more than one is rejected during mapping.
type Variant struct {
	Name    string
	Payload []HostType
}

// SumDecl describes one sum (tagged-union) declaration.
type SumDecl struct {
	Name     string
	Variants []Variant
}

// HasPayload reports whether any variant carries a payload. This decides the
// uniform representation: enum when false, struct when true.
func (d *SumDecl) HasPayload() bool {
	for _, v := range d.Variants {
		if len(v.Payload) > 0 {
			return true
		}
	}
	return false
}

// Param is a positional method parameter.
type Param struct {
	Name string
	Type HostType
}

// Method is a single interface method. Its ordinal is its zero-based
// position in the interface's method list.
type Method struct {
	Name   string
	Params []Param

	// Return is nil for methods without a result.
	Return *HostType
}

// InterfaceDecl describes one service interface declaration.
type InterfaceDecl struct {
	Name    string
	Methods []Method
}

// Warning is a non-fatal issue recorded while collecting declarations.
type Warning struct {
	Code    string
	Message string
}

// DeclarationSet is the ordered collection of declarations for one
// generation run. Insertion order is significant: it fixes registry scan
// order, resolver traversal order, and ultimately emission order, so
// identical input order reproduces identical output.
type DeclarationSet struct {
	Records    []RecordDecl
	Sums       []SumDecl
	Interfaces []InterfaceDecl
	Warnings   []Warning
}

// AddRecord appends a record declaration. A record with the same name as an
// earlier one supersedes it in place (last declaration wins) and records a
// warning; capability flags are merged rather than overwritten.
func (s *DeclarationSet) AddRecord(r RecordDecl) {
	for i := range s.Records {
		if s.Records[i].Name == r.Name {
			r.Schema = r.Schema || s.Records[i].Schema
			r.Opaque = r.Opaque || s.Records[i].Opaque
			s.Records[i] = r
			s.AddWarning(Warning{
				Code:    "duplicate_declaration",
				Message: "record " + r.Name + " declared more than once; last declaration wins",
			})
			return
		}
	}
	s.Records = append(s.Records, r)
}

// AddSum appends a sum-type declaration, superseding any earlier declaration
// of the same name.
func (s *DeclarationSet) AddSum(d SumDecl) {
	for i := range s.Sums {
		if s.Sums[i].Name == d.Name {
			s.Sums[i] = d
			s.AddWarning(Warning{
				Code:    "duplicate_declaration",
				Message: "sum type " + d.Name + " declared more than once; last declaration wins",
			})
			return
		}
	}
	s.Sums = append(s.Sums, d)
}

// AddInterface appends an interface declaration, superseding any earlier
// declaration of the same name.
func (s *DeclarationSet) AddInterface(d InterfaceDecl) {
	for i := range s.Interfaces {
		if s.Interfaces[i].Name == d.Name {
			s.Interfaces[i] = d
			s.AddWarning(Warning{
				Code:    "duplicate_declaration",
				Message: "interface " + d.Name + " declared more than once; last declaration wins",
			})
			return
		}
	}
	s.Interfaces = append(s.Interfaces, d)
}

// AddWarning records a non-fatal issue.
func (s *DeclarationSet) AddWarning(w Warning) {
	s.Warnings = append(s.Warnings, w)
}

// FindRecord looks up a record by name. Returns nil if not found.
func (s *DeclarationSet) FindRecord(name string) *RecordDecl {
	for i := range s.Records {
		if s.Records[i].Name == name {
			return &s.Records[i]
		}
	}
	return nil
}

// FindSum looks up a sum type by name. Returns nil if not found.
func (s *DeclarationSet) FindSum(name string) *SumDecl {
	for i := range s.Sums {
		if s.Sums[i].Name == name {
			return &s.Sums[i]
		}
	}
	return nil
}
