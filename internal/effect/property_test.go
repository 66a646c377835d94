package effect

import (
	"math/rand"
	"testing"
)

// Random-tree generators for the property tests below (spec.md §8,
// properties 2, 3, and 6). A small, fixed pool of names keeps generated
// trees likely to actually unify against each other, rather than failing
// an arity or bag-name mismatch on nearly every trial.
var quantifiedPool = []string{"e0", "e1", "e2"}
var concreteVarPool = []string{"x", "y", "z"}

func genTree(r *rand.Rand, depth int) Effect {
	if depth <= 0 || r.Intn(3) == 0 {
		return genLeaf(r)
	}
	arity := r.Intn(3)
	params := make([]Effect, arity)
	for i := range params {
		params[i] = genTree(r, depth-1)
	}
	return Arrow{Params: params, Result: genTree(r, depth-1)}
}

func genLeaf(r *rand.Rand) Effect {
	if r.Intn(2) == 0 {
		return Quantified{Name: quantifiedPool[r.Intn(len(quantifiedPool))]}
	}
	return Concrete{Read: genBag(r), Update: genBag(r)}
}

func genBag(r *rand.Rand) Vars {
	n := r.Intn(3)
	seen := map[string]bool{}
	var names []string
	for i := 0; i < n; i++ {
		name := concreteVarPool[r.Intn(len(concreteVarPool))]
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return ConcreteVars{Names: names}
}

// TestUnifySoundnessOverRandomTrees is spec.md §8 property 2: whenever
// Unify succeeds, applying its substitution to both operands yields the
// same simplified effect.
func TestUnifySoundnessOverRandomTrees(t *testing.T) {
	const trials = 300
	successes := 0
	for i := 0; i < trials; i++ {
		r := rand.New(rand.NewSource(int64(i)))
		a := genTree(r, 3)
		b := genTree(r, 3)

		s, err := Unify(a, b)
		if err != nil {
			continue
		}
		successes++

		left, lerr := Apply(s, a)
		if lerr != nil {
			t.Fatalf("trial %d: applying a successful unifier back to the LHS failed: %v", i, lerr)
		}
		right, rerr := Apply(s, b)
		if rerr != nil {
			t.Fatalf("trial %d: applying a successful unifier back to the RHS failed: %v", i, rerr)
		}
		if left.String() != right.String() {
			t.Fatalf("trial %d: unsound unifier for %s vs %s: apply(s,a)=%s, apply(s,b)=%s", i, a, b, left, right)
		}
	}
	if successes == 0 {
		t.Fatal("no trial produced a successful unification; the generator is too restrictive to exercise soundness")
	}
}

// TestUnifySymmetryOverRandomTrees is spec.md §8 property 6: unify(a,b)
// succeeds iff unify(b,a) does, and where both succeed, applying either
// substitution back to a (or to b) yields the same effect.
func TestUnifySymmetryOverRandomTrees(t *testing.T) {
	const trials = 300
	successes := 0
	for i := 0; i < trials; i++ {
		r := rand.New(rand.NewSource(int64(1000 + i)))
		a := genTree(r, 3)
		b := genTree(r, 3)

		sAB, errAB := Unify(a, b)
		sBA, errBA := Unify(b, a)

		if (errAB == nil) != (errBA == nil) {
			t.Fatalf("trial %d: unify(a,b) and unify(b,a) disagree on success for %s vs %s (errAB=%v errBA=%v)", i, a, b, errAB, errBA)
		}
		if errAB != nil {
			continue
		}
		successes++

		abA, _ := Apply(sAB, a)
		baA, _ := Apply(sBA, a)
		if abA.String() != baA.String() {
			t.Fatalf("trial %d: unify(a,b) and unify(b,a) give extensionally different results for a: %s vs %s", i, abA, baA)
		}
		abB, _ := Apply(sAB, b)
		baB, _ := Apply(sBA, b)
		if abB.String() != baB.String() {
			t.Fatalf("trial %d: unify(a,b) and unify(b,a) give extensionally different results for b: %s vs %s", i, abB, baB)
		}
	}
	if successes == 0 {
		t.Fatal("no trial produced a successful unification; the generator is too restrictive to exercise symmetry")
	}
}

// composeDomainA and composeDomainB are disjoint name pools standing in
// for two independently-produced substitutions — every real pair of
// substitutions Compose is ever called with has disjoint domains, since
// the occurs-check guarantees a name is bound at most once across a
// single unification run.
var composeDomainA = []string{"p0", "p1", "p2"}
var composeDomainB = []string{"q0", "q1", "q2"}

func genSubstOver(r *rand.Rand, domain []string, valuePool []string) Subst {
	var s Subst
	for _, name := range domain {
		if r.Intn(2) == 0 {
			continue
		}
		s = append(s, Binding{Kind: EffectBinding, Name: name, Effect: genEffectOver(r, valuePool)})
	}
	return s
}

func genEffectOver(r *rand.Rand, pool []string) Effect {
	if r.Intn(2) == 0 {
		return Concrete{Read: genBag(r), Update: genBag(r)}
	}
	return Quantified{Name: pool[r.Intn(len(pool))]}
}

// TestSubstComposeMatchesSequentialApply is spec.md §8 property 3: applying
// compose(s1,s2) in one pass is equivalent to applying s2 and then s1.
func TestSubstComposeMatchesSequentialApply(t *testing.T) {
	const trials = 300
	for i := 0; i < trials; i++ {
		r := rand.New(rand.NewSource(int64(2000 + i)))

		s1 := genSubstOver(r, composeDomainA, quantifiedPool)
		// s2's values may reference s1's domain, so composing actually has
		// something to chase through rather than being a no-op append.
		s2 := genSubstOver(r, composeDomainB, composeDomainA)
		e := genEffectOver(r, append(append([]string{}, composeDomainA...), composeDomainB...))

		composed, cerr := Compose(s1, s2)
		if cerr != nil {
			// A composition that surfaces a double-update error is itself
			// correct behavior (TestComposeSurfacesErrorFromApplyingIntoBinding
			// in subst_test.go covers that case directly); skip this trial
			// rather than treat it as a law violation.
			continue
		}

		viaCompose, err1 := Apply(composed, e)
		if err1 != nil {
			continue
		}

		viaSequential, err2 := Apply(s2, e)
		if err2 != nil {
			continue
		}
		viaSequential, err2 = Apply(s1, viaSequential)
		if err2 != nil {
			continue
		}

		if viaCompose.String() != viaSequential.String() {
			t.Fatalf("trial %d: composition law violated for %s: apply(compose(s1,s2),e)=%s, apply(s1,apply(s2,e))=%s",
				i, e.String(), viaCompose.String(), viaSequential.String())
		}
	}
}
