package merge

import (
	"fmt"
	"reflect"

	"fieldmerge/clock"
	"fieldmerge/rules"
)

// fieldAccessor is the engine's handle over one mergeable field: its name,
// its cached index into the struct, and the currently bound rule. Accessors
// are built once at engine construction; only the rule may be replaced
// afterwards.
type fieldAccessor struct {
	name  string
	index []int
	typ   reflect.Type
	rule  RuleFunc
}

// mergeInto resolves the field for one replica pair and writes the result
// into dst. The relation has already been computed from the object-level
// clocks; the bound rule runs only on Concurrent.
func (a *fieldAccessor) mergeInto(dst, local, remote reflect.Value, rel clock.Relation, localClock, remoteClock clock.VectorClock) {
	var out reflect.Value
	switch rel {
	case clock.After:
		out = local.FieldByIndex(a.index)
	case clock.Before, clock.Equal:
		out = remote.FieldByIndex(a.index)
	default:
		out = a.rule(local.FieldByIndex(a.index), remote.FieldByIndex(a.index), localClock, remoteClock)
	}
	if !out.IsValid() {
		out = reflect.Zero(a.typ)
	}
	if out.Type() != a.typ && out.Type().ConvertibleTo(a.typ) {
		out = out.Convert(a.typ)
	}
	dst.FieldByIndex(a.index).Set(out)
}

// eraseRule adapts a typed rule to the engine's reflect-based hot path. The
// closure is built once per binding; merges pay one interface round trip per
// concurrent field and no reflection-based discovery.
func eraseRule[V any](r rules.Rule[V]) RuleFunc {
	return func(local, remote reflect.Value, localClock, remoteClock clock.VectorClock) reflect.Value {
		lv, _ := valueAs[V](local)
		rv, _ := valueAs[V](remote)
		return reflect.ValueOf(r.Merge(lv, rv, localClock, remoteClock))
	}
}

func valueAs[V any](v reflect.Value) (V, bool) {
	var zero V
	if !v.IsValid() {
		return zero, false
	}
	out, ok := v.Interface().(V)
	if !ok {
		return zero, false
	}
	return out, true
}

// SetRule binds a typed rule to the named field, replacing whatever the tag
// or default dispatch installed. It is a free function because Go methods
// cannot introduce type parameters. Returns ErrUnknownField if the field is
// absent, ignored, or the clock carrier, and ErrTypeMismatch if V is not the
// field's declared type.
func SetRule[T Mergeable, V any](e *Engine[T], field string, r rules.Rule[V]) error {
	acc, ok := e.byName[field]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	if r == nil {
		return fmt.Errorf("%w: field %s", ErrNilRule, field)
	}
	valueType := reflect.TypeOf((*V)(nil)).Elem()
	if valueType != acc.typ {
		return fmt.Errorf("%w: field %s has type %s, rule resolves %s",
			ErrTypeMismatch, field, acc.typ, valueType)
	}
	acc.rule = eraseRule(r)
	return nil
}
