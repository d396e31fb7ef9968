package sortkey

import "testing"

func TestBetween_StrictlyBetween(t *testing.T) {
	cases := []struct{ a, b string }{
		{"", ""},
		{"a0", ""},
		{"", "a0"},
		{"a0", "a2"},
		{"a", "b"},
		{"h", "h1"},
	}
	for _, tc := range cases {
		k, err := Between(tc.a, tc.b)
		if err != nil {
			t.Fatalf("Between(%q, %q): %v", tc.a, tc.b, err)
		}
		if tc.a != "" && !(tc.a < k) {
			t.Fatalf("Between(%q, %q) = %q; not above lower bound", tc.a, tc.b, k)
		}
		if tc.b != "" && !(k < tc.b) {
			t.Fatalf("Between(%q, %q) = %q; not below upper bound", tc.a, tc.b, k)
		}
	}
}

func TestBetween_RepeatedSubdivisionNeverDuplicates(t *testing.T) {
	// Keep splitting the same pair of neighbors; every key must stay inside
	// the original bounds and never repeat.
	lower, upper := "a0", "a2"
	seen := map[string]bool{}
	cur := lower
	for i := 0; i < 1000; i++ {
		k, err := Between(cur, upper)
		if err != nil {
			t.Fatalf("iteration %d: Between(%q, %q): %v", i, cur, upper, err)
		}
		if !(lower < k && k < upper) {
			t.Fatalf("iteration %d: key %q escaped bounds (%q, %q)", i, k, lower, upper)
		}
		if seen[k] {
			t.Fatalf("iteration %d: duplicate key %q", i, k)
		}
		seen[k] = true
		cur = k
	}
}

func TestBefore_RepeatedHeadInsertion(t *testing.T) {
	// Inserting at the head over and over must keep working: each key needs
	// room below it, so no generated key may end in the minimal digit.
	cur, err := Initial()
	if err != nil {
		t.Fatalf("Initial: %v", err)
	}
	for i := 0; i < 100; i++ {
		k, err := Before(cur)
		if err != nil {
			t.Fatalf("iteration %d: Before(%q): %v", i, cur, err)
		}
		if !(k < cur) {
			t.Fatalf("iteration %d: Before(%q) = %q; not below bound", i, cur, k)
		}
		if k[len(k)-1] == '0' {
			t.Fatalf("iteration %d: key %q ends in minimal digit; nothing fits below it", i, k)
		}
		cur = k
	}
}

func TestBetween_AdjacentDigitsSubdivide(t *testing.T) {
	// Bounds whose digits differ by one force subdivision below the upper
	// bound; the result must still leave room underneath itself.
	cases := []struct{ a, b string }{
		{"", "1"},
		{"0", "1"},
		{"h", "i"},
		{"0z", "1"},
	}
	for _, tc := range cases {
		k, err := Between(tc.a, tc.b)
		if err != nil {
			t.Fatalf("Between(%q, %q): %v", tc.a, tc.b, err)
		}
		if tc.a != "" && !(tc.a < k) {
			t.Fatalf("Between(%q, %q) = %q; not above lower bound", tc.a, tc.b, k)
		}
		if !(k < tc.b) {
			t.Fatalf("Between(%q, %q) = %q; not below upper bound", tc.a, tc.b, k)
		}
		if k[len(k)-1] == '0' {
			t.Fatalf("Between(%q, %q) = %q; key ends in minimal digit", tc.a, tc.b, k)
		}
	}
}

func TestBetween_PrefixAdjacent_NoSpace(t *testing.T) {
	// "y" < "y0" but no lexicographic string fits strictly between them:
	// '0' is the minimal digit and end-of-string sorts before any digit.
	if _, err := Between("y", "y0"); err == nil {
		t.Fatalf("expected error for prefix-adjacent bounds, got nil")
	}
}

func TestBetween_InvertedBounds(t *testing.T) {
	if _, err := Between("b", "a"); err == nil {
		t.Fatalf("expected error for inverted bounds, got nil")
	}
}

func TestBetweenUnique_AvoidsCollisionByTighteningLowerBound(t *testing.T) {
	existing := map[string]bool{
		"p": true,
	}
	// Between("m","t") commonly yields "p". Ensure we don't hand out an existing key.
	k, err := BetweenUnique(existing, "m", "t")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if existing[k] {
		t.Fatalf("expected unique key; got existing key %q", k)
	}
	if !("m" < k && k < "t") {
		t.Fatalf("key %q escaped bounds", k)
	}
}

func TestBetweenUnique_OpenEndedUpper(t *testing.T) {
	existing := map[string]bool{
		"h0":  true,
		"h00": true,
	}
	k, err := BetweenUnique(existing, "h", "")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if existing[k] {
		t.Fatalf("expected unique key; got existing key %q", k)
	}
}

func TestInitial_NotEmpty(t *testing.T) {
	k, err := Initial()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if k == "" {
		t.Fatalf("expected non-empty initial key")
	}
}
