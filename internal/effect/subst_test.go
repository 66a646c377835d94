package effect

import "testing"

func TestApplyBindsQuantifiedEffect(t *testing.T) {
	s := bindEffectSubst("e", Concrete{Read: ConcreteVars{Names: []string{"x"}}, Update: ConcreteVars{}})
	got, err := Apply(s, Quantified{Name: "e"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "Read['x']" {
		t.Fatalf("got %q, want Read['x']", got.String())
	}
}

func TestApplyLeavesUnboundQuantifiedUnchanged(t *testing.T) {
	s := bindEffectSubst("e", Pure())
	got, err := Apply(s, Quantified{Name: "other"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "other" {
		t.Fatalf("got %q, want other", got.String())
	}
}

func TestApplyRecursesThroughArrow(t *testing.T) {
	s := bindEffectSubst("e1", VarRead("x"))
	arrow := Arrow{Params: []Effect{Quantified{Name: "e1"}}, Result: Quantified{Name: "e2"}}
	got, err := Apply(s, arrow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "(Read['x']) => e2" {
		t.Fatalf("got %q, want (Read['x']) => e2", got.String())
	}
}

func TestApplyResimplifiesConcreteAfterSubstitutingBags(t *testing.T) {
	s := bindVarsSubst("r", ConcreteVars{Names: []string{"x", "x", "y"}})
	got, err := Apply(s, Concrete{Read: QuantifiedVars{Name: "r"}, Update: ConcreteVars{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "Read['x', 'y']" {
		t.Fatalf("got %q, want deduped Read['x', 'y']", got.String())
	}
}

func TestApplySurfacesDoubleUpdateDiscoveredOnlyAfterSubstitution(t *testing.T) {
	s := bindVarsSubst("u", ConcreteVars{Names: []string{"x"}})
	_, err := Apply(s, Concrete{Read: ConcreteVars{}, Update: UnionVars{Children: []Vars{
		QuantifiedVars{Name: "u"},
		ConcreteVars{Names: []string{"x"}},
	}}})
	if err == nil {
		t.Fatal("expected an error for a double update only visible after substitution")
	}
}

func TestConcatDoesNotCrossApplyBetweenHalves(t *testing.T) {
	s1 := bindEffectSubst("e1", Quantified{Name: "e2"})
	s2 := bindEffectSubst("e2", VarRead("x"))
	concatenated := Concat(s1, s2)

	// Concat is a plain append: looking up e1 must still return the
	// original, un-substituted Quantified{"e2"}, not VarRead("x").
	got, ok := concatenated.lookupEffect("e1")
	if !ok {
		t.Fatal("expected e1 to be present in the concatenation")
	}
	if got.String() != "e2" {
		t.Fatalf("got %q, want e2 (Concat must not apply s2 into s1's bindings)", got.String())
	}
}

func TestComposeAppliesFirstSubstitutionIntoSecondsBindingValues(t *testing.T) {
	s1 := bindEffectSubst("e1", VarRead("x"))
	s2 := bindEffectSubst("e2", Quantified{Name: "e1"})

	composed, err := Compose(s1, s2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, aerr := Apply(composed, Quantified{Name: "e2"})
	if aerr != nil {
		t.Fatalf("unexpected apply error: %v", aerr)
	}
	if got.String() != "Read['x']" {
		t.Fatalf("got %q, want Read['x'] (e2 should chase through e1 via s1)", got.String())
	}
}

func TestComposeSurfacesErrorFromApplyingIntoBinding(t *testing.T) {
	s1 := bindVarsSubst("u", ConcreteVars{Names: []string{"x"}})
	s2 := bindEffectSubst("e2", Concrete{
		Read:   ConcreteVars{},
		Update: UnionVars{Children: []Vars{QuantifiedVars{Name: "u"}, ConcreteVars{Names: []string{"x"}}}},
	})

	if _, err := Compose(s1, s2); err == nil {
		t.Fatal("expected Compose to surface the double-update error hidden inside s2's binding")
	}
}
