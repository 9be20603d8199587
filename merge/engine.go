package merge

import (
	"fmt"
	"reflect"

	"fieldmerge/clock"
)

// Engine merges replicas of one mergeable type T, which must be a pointer to
// a struct embedding Replica (or otherwise carrying a clock.VectorClock
// field). Field discovery and rule binding happen once, in NewEngine.
type Engine[T Mergeable] struct {
	structType reflect.Type
	fields     []*fieldAccessor
	byName     map[string]*fieldAccessor
	ignored    []ignoredField
}

// ignoredField is a field excluded from merging: copied from the local side
// on Merge, untouched on MergeInto.
type ignoredField struct {
	name  string
	index []int
}

// Resolver registers rules into an engine at construction time. Bindings
// made here take precedence over tags and the default rule.
type Resolver[T Mergeable] interface {
	RegisterRules(e *Engine[T]) error
}

var (
	clockFieldType   = reflect.TypeOf(clock.VectorClock(nil))
	replicaFieldType = reflect.TypeOf(Replica{})
)

// NewEngine builds the engine for T. Exported struct fields become
// mergeable accessors bound per their `merge` tag (or the default
// last-write-wins when untagged); `merge:"-"` fields are recorded as
// ignored; the embedded Replica, any clock.VectorClock field, and
// unexported fields never participate. Resolvers run last, in order.
func NewEngine[T Mergeable](resolvers ...Resolver[T]) (*Engine[T], error) {
	ptrType := reflect.TypeOf((*T)(nil)).Elem()
	if ptrType.Kind() != reflect.Pointer || ptrType.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s", ErrNotStructPointer, ptrType)
	}
	structType := ptrType.Elem()

	e := &Engine[T]{
		structType: structType,
		byName:     make(map[string]*fieldAccessor),
	}

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if !field.IsExported() {
			continue
		}
		if field.Type == replicaFieldType || field.Type == clockFieldType {
			continue
		}

		tag := field.Tag.Get("merge")
		if tag == "-" {
			e.ignored = append(e.ignored, ignoredField{name: field.Name, index: field.Index})
			continue
		}
		if tag == "" {
			tag = "lww"
		}

		fn, err := ruleForTag(tag, field.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		acc := &fieldAccessor{
			name:  field.Name,
			index: field.Index,
			typ:   field.Type,
			rule:  fn,
		}
		e.fields = append(e.fields, acc)
		e.byName[field.Name] = acc
	}

	for _, r := range resolvers {
		if r == nil {
			continue
		}
		if err := r.RegisterRules(e); err != nil {
			return nil, fmt.Errorf("resolver: %w", err)
		}
	}

	return e, nil
}

// Fields returns the mergeable field names in declaration order.
func (e *Engine[T]) Fields() []string {
	names := make([]string, len(e.fields))
	for i, acc := range e.fields {
		names[i] = acc.name
	}
	return names
}

// IgnoredFields returns the names of fields excluded from merging.
func (e *Engine[T]) IgnoredFields() []string {
	names := make([]string, len(e.ignored))
	for i, ig := range e.ignored {
		names[i] = ig.name
	}
	return names
}

// Merge reconciles two replicas into a freshly allocated one. A nil side is
// a shortcut: the other side is returned unchanged. Otherwise the causal
// relation between the two clocks is computed once and applied to every
// mergeable field (Before and Equal adopt remote, After keeps local,
// Concurrent runs the bound rule), ignored fields are copied from local,
// and the result's clock is a new pointwise maximum of both clocks.
func (e *Engine[T]) Merge(local, remote T) T {
	if isNilReplica(local) {
		return remote
	}
	if isNilReplica(remote) {
		return local
	}

	localClock := local.VectorClock()
	remoteClock := remote.VectorClock()
	rel := localClock.Compare(remoteClock)

	resultPtr := reflect.New(e.structType)
	dst := resultPtr.Elem()
	localVal := reflect.ValueOf(local).Elem()
	remoteVal := reflect.ValueOf(remote).Elem()

	for _, acc := range e.fields {
		acc.mergeInto(dst, localVal, remoteVal, rel, localClock, remoteClock)
	}
	for _, ig := range e.ignored {
		dst.FieldByIndex(ig.index).Set(localVal.FieldByIndex(ig.index))
	}

	result := resultPtr.Interface().(T)
	result.SetVectorClock(localClock.Merge(remoteClock))
	return result
}

// MergeInto reconciles remote into local, writing resolved values back into
// local and replacing its clock with the merged clock. Ignored fields keep
// their local values. Returns local.
//
// A nil local returns remote by reference, which breaks the in-place
// contract for that one case; callers that can hold nil replicas should use
// Merge instead.
func (e *Engine[T]) MergeInto(local, remote T) T {
	if isNilReplica(local) {
		return remote
	}
	if isNilReplica(remote) {
		return local
	}

	localClock := local.VectorClock()
	remoteClock := remote.VectorClock()
	rel := localClock.Compare(remoteClock)

	localVal := reflect.ValueOf(local).Elem()
	remoteVal := reflect.ValueOf(remote).Elem()

	for _, acc := range e.fields {
		acc.mergeInto(localVal, localVal, remoteVal, rel, localClock, remoteClock)
	}

	local.SetVectorClock(localClock.Merge(remoteClock))
	return local
}

func isNilReplica[T Mergeable](replica T) bool {
	v := reflect.ValueOf(replica)
	return !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil())
}
