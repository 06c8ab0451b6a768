package capnp

import (
	"github.com/0xWOLAND/capnez/capnezgen/ir"
)

type mark int

const (
	unvisited mark = iota
	inProgress
	done
)

// resolver orders record declarations so that every record appears strictly
// after all record types it structurally references. Only RecordRef edges
// count; primitives and opaque blobs carry no dependency. List and Optional
// wrappers are unwrapped to the innermost type before the edge test.
type resolver struct {
	records map[string]*ir.MappedRecord
	sums    map[string]bool
	marks   map[string]mark
	stack   []string
	order   []ir.MappedRecord
}

// ResolveOrder returns the records of set in dependency order. Traversal
// over top-level records follows insertion order and, within each record,
// field order, so the result is deterministic for a given declaration set.
//
// A reference cycle yields a CYCLIC_DEPENDENCY error naming the cycle
// members. A RecordRef whose target is neither a declared record nor a
// declared sum type yields UNKNOWN_TYPE; this also covers references inside
// sum payloads and interface signatures, which carry no ordering edges but
// must still resolve.
func ResolveOrder(set *ir.MappedSet) ([]ir.MappedRecord, error) {
	r := &resolver{
		records: make(map[string]*ir.MappedRecord, len(set.Records)),
		sums:    make(map[string]bool, len(set.Sums)),
		marks:   make(map[string]mark, len(set.Records)),
	}
	for i := range set.Records {
		r.records[set.Records[i].Name] = &set.Records[i]
	}
	for _, s := range set.Sums {
		r.sums[s.Name] = true
	}

	if err := r.checkReferences(set); err != nil {
		return nil, err
	}

	for i := range set.Records {
		if err := r.visit(&set.Records[i]); err != nil {
			return nil, err
		}
	}
	return r.order, nil
}

func (r *resolver) visit(rec *ir.MappedRecord) error {
	switch r.marks[rec.Name] {
	case done:
		return nil
	case inProgress:
		return &ir.Error{
			Code:     ir.ErrCyclicDependency,
			Message:  "record reference graph contains a cycle",
			TypeName: rec.Name,
			Cycle:    r.cycleFrom(rec.Name),
		}
	}

	r.marks[rec.Name] = inProgress
	r.stack = append(r.stack, rec.Name)

	for _, f := range rec.Fields {
		ref, ok := ir.Unwrap(f.Type).(ir.RecordRefType)
		if !ok {
			continue
		}
		dep, ok := r.records[ref.Name]
		if !ok {
			// Sum types are emitted ahead of all records, so a
			// reference to one never constrains record order.
			continue
		}
		if err := r.visit(dep); err != nil {
			return err
		}
	}

	r.stack = r.stack[:len(r.stack)-1]
	r.marks[rec.Name] = done
	r.order = append(r.order, *rec)
	return nil
}

// cycleFrom slices the traversal stack starting at the first occurrence of
// name and closes the loop, e.g. [A B C A].
func (r *resolver) cycleFrom(name string) []string {
	for i, n := range r.stack {
		if n == name {
			cycle := append([]string{}, r.stack[i:]...)
			return append(cycle, name)
		}
	}
	return []string{name, name}
}

// checkReferences verifies that every RecordRef in the set targets a
// declared record or sum type. The optimistic forward references created by
// the mapper are settled here: a name that was never declared is a hard
// failure rather than a silently unordered reference.
func (r *resolver) checkReferences(set *ir.MappedSet) error {
	check := func(t ir.SchemaType, typeName, member string) error {
		ref, ok := ir.Unwrap(t).(ir.RecordRefType)
		if !ok {
			return nil
		}
		if r.records[ref.Name] == nil && !r.sums[ref.Name] {
			return &ir.Error{
				Code:     ir.ErrUnknownType,
				Message:  "reference to undeclared type " + ref.Name,
				TypeName: typeName,
				Member:   member,
			}
		}
		return nil
	}

	for _, rec := range set.Records {
		for _, f := range rec.Fields {
			if err := check(f.Type, rec.Name, f.Name); err != nil {
				return err
			}
		}
	}
	for _, sum := range set.Sums {
		for _, v := range sum.Variants {
			if v.Type == nil {
				continue
			}
			if err := check(v.Type, sum.Name, v.Name); err != nil {
				return err
			}
		}
	}
	for _, iface := range set.Interfaces {
		for _, m := range iface.Methods {
			for _, p := range m.Params {
				if err := check(p.Type, iface.Name, m.Name); err != nil {
					return err
				}
			}
			if m.Return != nil {
				if err := check(m.Return, iface.Name, m.Name); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
