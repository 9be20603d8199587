package merge

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"

	"fieldmerge/clock"
	"fieldmerge/rules"
)

// named types must bind the kind-wise built-in rules
type throttle float64

type armed bool

type taggedNamed struct {
	Replica
	Throttle throttle `merge:"max"`
	Armed    armed    `merge:"or"`
	Label    string   `merge:"longest"`
	Hits     int      `merge:"sum"`
	Log      []int    `merge:"append"`
}

func TestRegistry_NamedTypesBindBuiltins(t *testing.T) {
	e, err := NewEngine[*taggedNamed]()
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	local := &taggedNamed{
		Replica:  Replica{Clock: clock.VectorClock{"A": 1}},
		Throttle: 0.4,
		Armed:    true,
		Label:    "short",
		Hits:     2,
		Log:      []int{1},
	}
	remote := &taggedNamed{
		Replica:  Replica{Clock: clock.VectorClock{"B": 1}},
		Throttle: 0.9,
		Armed:    false,
		Label:    "a longer label",
		Hits:     3,
		Log:      []int{2},
	}

	merged := e.Merge(local, remote)

	if merged.Throttle != 0.9 {
		t.Errorf("max over named float: expected 0.9, got %v", merged.Throttle)
	}
	if !bool(merged.Armed) {
		t.Error("or over named bool: expected true")
	}
	if merged.Label != "a longer label" {
		t.Errorf("longest: expected the longer label, got %q", merged.Label)
	}
	if merged.Hits != 5 {
		t.Errorf("sum: expected 5, got %d", merged.Hits)
	}
	if len(merged.Log) != 2 || merged.Log[0] != 1 || merged.Log[1] != 2 {
		t.Errorf("append: expected [1 2], got %v", merged.Log)
	}
}

type custom struct {
	Replica
	Score float64 `merge:"clamped"`
}

type clampRule struct{}

func (clampRule) Merge(local, remote float64, _, _ clock.VectorClock) float64 {
	out := local + remote
	if out > 100 {
		out = 100
	}
	return out
}

func TestRegisterRule_CustomTagName(t *testing.T) {
	RegisterRule("clamped", FactoryFor[float64](clampRule{}))

	e, err := NewEngine[*custom]()
	if err != nil {
		t.Fatalf("NewEngine with custom tag: %v", err)
	}

	local := &custom{Replica: Replica{Clock: clock.VectorClock{"A": 1}}, Score: 60}
	remote := &custom{Replica: Replica{Clock: clock.VectorClock{"B": 1}}, Score: 70}
	if merged := e.Merge(local, remote); merged.Score != 100 {
		t.Errorf("Custom clamped rule should cap at 100, got %v", merged.Score)
	}
}

type misBound struct {
	Replica
	Name string `merge:"clampedstr"`
}

func TestFactoryFor_RejectsWrongFieldType(t *testing.T) {
	RegisterRule("clampedstr", FactoryFor[float64](clampRule{}))

	if _, err := NewEngine[*misBound](); err == nil {
		t.Error("FactoryFor should reject a field of a different type")
	}
}

func TestRegisterRule_PanicsOnMisuse(t *testing.T) {
	assertPanics := func(name string, fn func()) {
		defer func() {
			if recover() == nil {
				t.Errorf("%s should panic", name)
			}
		}()
		fn()
	}
	assertPanics("empty name", func() { RegisterRule("", FactoryFor[int](rules.Max[int]())) })
	assertPanics("reserved name", func() { RegisterRule("-", FactoryFor[int](rules.Max[int]())) })
	assertPanics("nil factory", func() { RegisterRule("x", nil) })
}

type setTagged struct {
	Replica
	Tags mapset.Set[float64] `merge:"union"`
}

func TestUnionTag_UnsupportedElementType(t *testing.T) {
	if _, err := NewEngine[*setTagged](); err == nil {
		t.Error("union tag should reject set element types without a built-in")
	}
}
