package merge

import (
	"fmt"
	"reflect"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"

	"fieldmerge/clock"
	"fieldmerge/rules"
)

// RuleFunc is the erased form of a bound rule: it resolves two field values
// under the replicas' clocks. Built-in funcs operate kind-wise so named
// types (`type Speed float64`) bind without extra plumbing.
type RuleFunc func(local, remote reflect.Value, localClock, remoteClock clock.VectorClock) reflect.Value

// RuleFactory produces a RuleFunc for a concrete field type, or an error if
// the rule cannot serve that type.
type RuleFactory func(fieldType reflect.Type) (RuleFunc, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]RuleFactory)
)

// RegisterRule makes a factory available under a `merge` tag name,
// replacing any previous registration. It panics on an empty name or nil
// factory, the same class of misuse as constructing an annotation with no
// rule type.
func RegisterRule(name string, factory RuleFactory) {
	if name == "" || name == "-" {
		panic("merge: RegisterRule with empty or reserved name")
	}
	if factory == nil {
		panic("merge: RegisterRule with nil factory for " + name)
	}
	registryMu.Lock()
	registry[name] = factory
	registryMu.Unlock()
}

// FactoryFor adapts a typed rule into a factory that serves exactly the
// rule's value type. Use it to register parameterized or user-defined rules
// under custom tag names.
func FactoryFor[V any](r rules.Rule[V]) RuleFactory {
	valueType := reflect.TypeOf((*V)(nil)).Elem()
	return func(fieldType reflect.Type) (RuleFunc, error) {
		if fieldType != valueType {
			return nil, fmt.Errorf("%w: rule resolves %s, field has type %s",
				ErrTypeMismatch, valueType, fieldType)
		}
		return eraseRule(r), nil
	}
}

func ruleForTag(name string, fieldType reflect.Type) (RuleFunc, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRule, name)
	}
	return factory(fieldType)
}

func init() {
	// Side-picking rules ignore the value entirely; one instantiation at
	// `any` serves every field type.
	RegisterRule("lww", anyFactory(rules.LastWriteWins[any]()))
	RegisterRule("local", anyFactory(rules.PreferLocal[any]()))
	RegisterRule("remote", anyFactory(rules.PreferRemote[any]()))
	RegisterRule("mostupdates", anyFactory(rules.MostUpdates[any]()))
	RegisterRule("highestcontribution", anyFactory(rules.HighestContribution[any]()))
	RegisterRule("majority", anyFactory(rules.Majority[any]()))
	RegisterRule("lexicographic", anyFactory(rules.LexicographicNodeWins[any]()))
	RegisterRule("random", anyFactory(rules.RandomChoice[any](nil)))

	RegisterRule("or", boolFactory(func(a, b bool) bool { return a || b }))
	RegisterRule("and", boolFactory(func(a, b bool) bool { return a && b }))

	RegisterRule("sum", sumFactory)
	RegisterRule("max", orderedFactory(remoteGreater))
	RegisterRule("min", orderedFactory(remoteLess))
	RegisterRule("average", averageFactory)
	RegisterRule("longest", stringLengthFactory(func(l, r int) bool { return r > l }))
	RegisterRule("shortest", stringLengthFactory(func(l, r int) bool { return r < l }))
	RegisterRule("append", appendFactory)
	RegisterRule("uappend", uniqueAppendFactory)
	RegisterRule("union", unionFactory)
}

func anyFactory(r rules.Rule[any]) RuleFactory {
	fn := eraseRule(r)
	return func(reflect.Type) (RuleFunc, error) {
		return fn, nil
	}
}

func boolFactory(op func(local, remote bool) bool) RuleFactory {
	return func(fieldType reflect.Type) (RuleFunc, error) {
		if fieldType.Kind() != reflect.Bool {
			return nil, fmt.Errorf("%w: need a bool field, got %s", ErrTypeMismatch, fieldType)
		}
		return func(local, remote reflect.Value, _, _ clock.VectorClock) reflect.Value {
			out := reflect.New(fieldType).Elem()
			out.SetBool(op(local.Bool(), remote.Bool()))
			return out
		}, nil
	}
}

func sumFactory(fieldType reflect.Type) (RuleFunc, error) {
	switch fieldType.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(local, remote reflect.Value, _, _ clock.VectorClock) reflect.Value {
			out := reflect.New(fieldType).Elem()
			out.SetInt(local.Int() + remote.Int())
			return out
		}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return func(local, remote reflect.Value, _, _ clock.VectorClock) reflect.Value {
			out := reflect.New(fieldType).Elem()
			out.SetUint(local.Uint() + remote.Uint())
			return out
		}, nil
	case reflect.Float32, reflect.Float64:
		return func(local, remote reflect.Value, _, _ clock.VectorClock) reflect.Value {
			out := reflect.New(fieldType).Elem()
			out.SetFloat(local.Float() + remote.Float())
			return out
		}, nil
	default:
		return nil, fmt.Errorf("%w: need a numeric field, got %s", ErrTypeMismatch, fieldType)
	}
}

func remoteGreater(local, remote reflect.Value) bool {
	switch local.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return remote.Int() > local.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return remote.Uint() > local.Uint()
	case reflect.Float32, reflect.Float64:
		return remote.Float() > local.Float()
	default:
		return remote.String() > local.String()
	}
}

func remoteLess(local, remote reflect.Value) bool {
	switch local.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return remote.Int() < local.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return remote.Uint() < local.Uint()
	case reflect.Float32, reflect.Float64:
		return remote.Float() < local.Float()
	default:
		return remote.String() < local.String()
	}
}

func orderedFactory(remoteWins func(local, remote reflect.Value) bool) RuleFactory {
	return func(fieldType reflect.Type) (RuleFunc, error) {
		switch fieldType.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64, reflect.String:
			return func(local, remote reflect.Value, _, _ clock.VectorClock) reflect.Value {
				if remoteWins(local, remote) {
					return remote
				}
				return local
			}, nil
		default:
			return nil, fmt.Errorf("%w: need an ordered field, got %s", ErrTypeMismatch, fieldType)
		}
	}
}

func averageFactory(fieldType reflect.Type) (RuleFunc, error) {
	switch fieldType.Kind() {
	case reflect.Float32, reflect.Float64:
		return func(local, remote reflect.Value, _, _ clock.VectorClock) reflect.Value {
			out := reflect.New(fieldType).Elem()
			out.SetFloat((local.Float() + remote.Float()) / 2)
			return out
		}, nil
	default:
		return nil, fmt.Errorf("%w: need a float field, got %s", ErrTypeMismatch, fieldType)
	}
}

func stringLengthFactory(remoteWins func(localLen, remoteLen int) bool) RuleFactory {
	return func(fieldType reflect.Type) (RuleFunc, error) {
		if fieldType.Kind() != reflect.String {
			return nil, fmt.Errorf("%w: need a string field, got %s", ErrTypeMismatch, fieldType)
		}
		return func(local, remote reflect.Value, _, _ clock.VectorClock) reflect.Value {
			if remoteWins(len(local.String()), len(remote.String())) {
				return remote
			}
			return local
		}, nil
	}
}

func appendFactory(fieldType reflect.Type) (RuleFunc, error) {
	if fieldType.Kind() != reflect.Slice {
		return nil, fmt.Errorf("%w: need a slice field, got %s", ErrTypeMismatch, fieldType)
	}
	return func(local, remote reflect.Value, _, _ clock.VectorClock) reflect.Value {
		out := reflect.MakeSlice(fieldType, 0, local.Len()+remote.Len())
		out = reflect.AppendSlice(out, local)
		out = reflect.AppendSlice(out, remote)
		return out
	}, nil
}

func uniqueAppendFactory(fieldType reflect.Type) (RuleFunc, error) {
	if fieldType.Kind() != reflect.Slice || !fieldType.Elem().Comparable() {
		return nil, fmt.Errorf("%w: need a slice of comparable elements, got %s", ErrTypeMismatch, fieldType)
	}
	return func(local, remote reflect.Value, _, _ clock.VectorClock) reflect.Value {
		seen := make(map[any]struct{}, local.Len())
		out := reflect.MakeSlice(fieldType, 0, local.Len()+remote.Len())
		for i := 0; i < local.Len(); i++ {
			elem := local.Index(i)
			seen[elem.Interface()] = struct{}{}
			out = reflect.Append(out, elem)
		}
		for i := 0; i < remote.Len(); i++ {
			elem := remote.Index(i)
			if _, ok := seen[elem.Interface()]; ok {
				continue
			}
			seen[elem.Interface()] = struct{}{}
			out = reflect.Append(out, elem)
		}
		return out
	}, nil
}

// unionFactory serves the common set element types out of the box; other
// element types bind rules.SetUnion programmatically via SetRule or
// FactoryFor.
var setUnionFuncs = map[reflect.Type]RuleFunc{
	reflect.TypeOf((*mapset.Set[string])(nil)).Elem(): eraseRule(rules.SetUnion[string]()),
	reflect.TypeOf((*mapset.Set[int])(nil)).Elem():    eraseRule(rules.SetUnion[int]()),
	reflect.TypeOf((*mapset.Set[int64])(nil)).Elem():  eraseRule(rules.SetUnion[int64]()),
}

func unionFactory(fieldType reflect.Type) (RuleFunc, error) {
	if fn, ok := setUnionFuncs[fieldType]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("%w: no built-in set union for %s", ErrTypeMismatch, fieldType)
}
