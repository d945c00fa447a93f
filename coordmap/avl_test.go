package coordmap

import "testing"

func TestSgnZero(t *testing.T) {
	// The corrected signum treats zero as its own case, rather than
	// reusing the "positive" branch the original implementation does.
	if got := sgn(0); got != 0 {
		t.Fatalf("sgn(0) = %d, want 0", got)
	}
	if got := sgn(5); got != 1 {
		t.Fatalf("sgn(5) = %d, want 1", got)
	}
	if got := sgn(-5); got != -1 {
		t.Fatalf("sgn(-5) = %d, want -1", got)
	}
}

func TestTreeInsertAndLookup(t *testing.T) {
	tr := &tree{}
	tr.insert(interval{fromStart: 0, fromEnd: 99, toChrom: "chr1", toStart: 1000, toEnd: 1099})
	tr.insert(interval{fromStart: 100, fromEnd: 199, toChrom: "chr1", toStart: 2000, toEnd: 2099})
	tr.insert(interval{fromStart: 200, fromEnd: 299, toChrom: "chr1", toStart: 3000, toEnd: 3099})

	iv, ok := tr.lookup(150)
	if !ok {
		t.Fatal("lookup(150) found nothing")
	}
	if iv.toStart != 2000 {
		t.Fatalf("lookup(150).toStart = %d, want 2000", iv.toStart)
	}

	if _, ok := tr.lookup(500); ok {
		t.Fatal("lookup(500) unexpectedly found an interval")
	}
}

func TestTreeStaysBalanced(t *testing.T) {
	tr := &tree{}
	for i := 0; i < 100; i++ {
		tr.insert(interval{fromStart: i * 10, fromEnd: i*10 + 9, toChrom: "chr1", toStart: i * 10, toEnd: i*10 + 9})
	}

	h := height(tr.root)
	// log2(100) ~= 6.6; a correctly-rebalanced AVL tree of 100 nodes
	// never exceeds roughly 1.44*log2(n+2) ~= 10 in height. An
	// unbalanced (degenerate) insert order would instead produce a
	// height of 100.
	if h > 12 {
		t.Fatalf("tree height %d after 100 sequential inserts, want a balanced tree", h)
	}

	for i := 0; i < 100; i++ {
		iv, ok := tr.lookup(i*10 + 5)
		if !ok {
			t.Fatalf("lookup(%d) found nothing", i*10+5)
		}
		if iv.fromStart != i*10 {
			t.Fatalf("lookup(%d).fromStart = %d, want %d", i*10+5, iv.fromStart, i*10)
		}
	}
}

func TestCorrectedContainmentFindsIntervalBuggyCheckWouldMiss(t *testing.T) {
	// The original pseudocode's containment check compared pos against
	// the wrong pair of fields, so a query point legitimately inside
	// [fromStart, fromEnd] could fail to match. This regression guards
	// the corrected check: pos is compared against fromStart/fromEnd of
	// the SAME interval, nothing else.
	tr := &tree{}
	tr.insert(interval{fromStart: 1000, fromEnd: 2000, toChrom: "chr2", toStart: 50, toEnd: 1050})

	iv, ok := tr.lookup(1500)
	if !ok {
		t.Fatal("corrected containment check failed to find an interval containing the query point")
	}
	if iv.toChrom != "chr2" {
		t.Fatalf("iv.toChrom = %q, want chr2", iv.toChrom)
	}

	// Boundary points are inclusive.
	if _, ok := tr.lookup(1000); !ok {
		t.Fatal("lookup(1000) should match the inclusive lower bound")
	}
	if _, ok := tr.lookup(2000); !ok {
		t.Fatal("lookup(2000) should match the inclusive upper bound")
	}
}
