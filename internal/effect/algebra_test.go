package effect

import "testing"

func TestFlattenUnionsIsIdempotent(t *testing.T) {
	nested := UnionVars{Children: []Vars{
		ConcreteVars{Names: []string{"x"}},
		UnionVars{Children: []Vars{
			ConcreteVars{Names: []string{"y"}},
			QuantifiedVars{Name: "r1"},
		}},
	}}

	once := FlattenUnions(nested)
	twice := FlattenUnions(once)

	if once.String() != twice.String() {
		t.Fatalf("FlattenUnions not idempotent: once=%q twice=%q", once.String(), twice.String())
	}

	if _, stillUnion := once.(UnionVars); stillUnion {
		u := once.(UnionVars)
		for _, c := range u.Children {
			if _, nested := c.(UnionVars); nested {
				t.Fatalf("flattened result still nests a UnionVars: %#v", once)
			}
		}
	}
}

func TestFlattenUnionsMergesConcreteMembers(t *testing.T) {
	v := UnionVars{Children: []Vars{
		ConcreteVars{Names: []string{"x"}},
		ConcreteVars{Names: []string{"y"}},
	}}
	got := FlattenUnions(v)
	cv, ok := got.(ConcreteVars)
	if !ok {
		t.Fatalf("expected ConcreteVars, got %#v", got)
	}
	if len(cv.Names) != 2 {
		t.Fatalf("expected 2 names, got %v", cv.Names)
	}
}

func TestUniqueVarsDeduplicates(t *testing.T) {
	v := ConcreteVars{Names: []string{"x", "y", "x"}}
	got := UniqueVars(v).(ConcreteVars)
	if len(got.Names) != 2 {
		t.Fatalf("expected 2 unique names, got %v", got.Names)
	}
}

func TestSimplifyConcretePure(t *testing.T) {
	c := Concrete{Read: ConcreteVars{}, Update: ConcreteVars{}}
	got, err := SimplifyConcrete(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err.Render())
	}
	if got.String() != "Pure" {
		t.Fatalf("expected Pure, got %q", got.String())
	}
}

func TestSimplifyConcreteRejectsDoubleUpdate(t *testing.T) {
	c := Concrete{
		Read:   ConcreteVars{},
		Update: ConcreteVars{Names: []string{"x", "x"}},
	}
	_, err := SimplifyConcrete(c)
	if err == nil {
		t.Fatal("expected error for double update of same variable")
	}
	leaves := err.Leaves()
	if len(leaves) != 1 {
		t.Fatalf("expected one leaf message, got %v", leaves)
	}
	want := "Multiple updates of variable(s): x"
	if leaves[0] != want {
		t.Fatalf("got %q, want %q", leaves[0], want)
	}
}

func TestSimplifyConcreteRejectsDoubleUpdateAcrossUnion(t *testing.T) {
	c := Concrete{
		Read: ConcreteVars{},
		Update: UnionVars{Children: []Vars{
			ConcreteVars{Names: []string{"x"}},
			ConcreteVars{Names: []string{"x"}},
		}},
	}
	_, err := SimplifyConcrete(c)
	if err == nil {
		t.Fatal("expected error for double update surfaced only after flattening a union")
	}
}

func TestSimplifyConcreteDedupsReadButNotError(t *testing.T) {
	c := Concrete{
		Read:   ConcreteVars{Names: []string{"x", "x", "y"}},
		Update: ConcreteVars{},
	}
	got, err := SimplifyConcrete(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err.Render())
	}
	rv := got.Read.(ConcreteVars)
	if len(rv.Names) != 2 {
		t.Fatalf("expected read bag deduped to 2 names, got %v", rv.Names)
	}
}

func TestSameVarsIgnoresOrder(t *testing.T) {
	a := ConcreteVars{Names: []string{"x", "y"}}
	b := ConcreteVars{Names: []string{"y", "x"}}
	if !sameVars(a, b) {
		t.Fatal("expected sameVars to ignore order")
	}
	c := ConcreteVars{Names: []string{"y", "z"}}
	if sameVars(a, c) {
		t.Fatal("expected sameVars to reject differing name sets")
	}
}
