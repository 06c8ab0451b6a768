package ir

// Class is the registry's verdict on a type name.
type Class int

const (
	// ClassUnknown means the name was never registered. Field references to
	// unknown names map optimistically to record references and are checked
	// for existence during dependency resolution.
	ClassUnknown Class = iota

	// ClassSchemaNative means the type has a first-class schema
	// representation.
	ClassSchemaNative

	// ClassOpaqueOnly means the type is carried as an opaque byte sequence.
	ClassOpaqueOnly
)

// String returns the string representation of the class.
func (c Class) String() string {
	switch c {
	case ClassSchemaNative:
		return "SchemaNative"
	case ClassOpaqueOnly:
		return "OpaqueOnly"
	default:
		return "Unknown"
	}
}

type registryEntry struct {
	schemaNative  bool
	opaqueCapable bool
}

// Registry classifies declared type names for the type mapper. It is built
// in a dedicated pre-pass over all declarations before any field is mapped,
// because a field may reference a type declared later in scan order.
//
// A Registry is scoped to a single generation run. Construct one with
// NewRegistry and thread it through the run; it is not safe for concurrent
// mutation and is discarded when the run ends.
type Registry struct {
	entries map[string]registryEntry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]registryEntry)}
}

// Register merges capability flags into the entry for name. Flags OR
// together: a type may be registered once for schema support and again for
// the alternate serialization mode, and neither registration erases the
// other.
func (r *Registry) Register(name string, schemaNative, opaqueCapable bool) {
	e := r.entries[name]
	e.schemaNative = e.schemaNative || schemaNative
	e.opaqueCapable = e.opaqueCapable || opaqueCapable
	r.entries[name] = e
}

// Classify applies the precedence rule: a schema-native type is never
// collapsed to bytes, even when it also supports the opaque mode.
func (r *Registry) Classify(name string) Class {
	e, ok := r.entries[name]
	if !ok {
		return ClassUnknown
	}
	switch {
	case e.schemaNative:
		return ClassSchemaNative
	case e.opaqueCapable:
		return ClassOpaqueOnly
	default:
		return ClassUnknown
	}
}

// BuildRegistry runs the pre-pass: every declaration in the set registers
// its name and capability flags. Sum types and interfaces are always
// schema-native; records carry their declared flags.
func BuildRegistry(decls *DeclarationSet) *Registry {
	r := NewRegistry()
	for _, rec := range decls.Records {
		r.Register(rec.Name, rec.SchemaNative(), rec.Opaque)
	}
	for _, sum := range decls.Sums {
		r.Register(sum.Name, true, false)
	}
	for _, iface := range decls.Interfaces {
		r.Register(iface.Name, true, false)
	}
	return r
}
