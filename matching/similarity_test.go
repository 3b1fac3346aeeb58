package matching

import "testing"

func TestJaccardIdentical(t *testing.T) {
	got := Jaccard([]string{"autism", "speech"}, []string{"speech", "autism"})
	if got != 1.0 {
		t.Fatalf("expected 1.0 for identical sets, got %v", got)
	}
}

func TestJaccardEmpty(t *testing.T) {
	if got := Jaccard(nil, []string{"autism"}); got != 0 {
		t.Fatalf("expected 0 for empty left side, got %v", got)
	}
	if got := Jaccard([]string{"autism"}, nil); got != 0 {
		t.Fatalf("expected 0 for empty right side, got %v", got)
	}
	if got := Jaccard(nil, nil); got != 0 {
		t.Fatalf("expected 0 for both empty, got %v", got)
	}
}

func TestJaccardPartialOverlap(t *testing.T) {
	// {autism, speech} vs {autism, adhd}: intersection 1, union 3
	got := Jaccard([]string{"autism", "speech"}, []string{"autism", "adhd"})
	want := 1.0 / 3.0
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestJaccardNoOverlap(t *testing.T) {
	if got := Jaccard([]string{"adhd"}, []string{"gifted"}); got != 0 {
		t.Fatalf("expected 0 for disjoint sets, got %v", got)
	}
}

func TestJaccardDuplicatesCollapsed(t *testing.T) {
	got := Jaccard([]string{"autism", "autism", "speech"}, []string{"autism", "speech", "speech"})
	if got != 1.0 {
		t.Fatalf("expected duplicates to collapse to identical sets, got %v", got)
	}
}

func TestJaccardBounds(t *testing.T) {
	cases := [][2][]string{
		{{"a"}, {"a", "b", "c"}},
		{{"a", "b"}, {"c", "d"}},
		{{"a", "b", "c", "d"}, {"b", "c"}},
	}
	for _, c := range cases {
		got := Jaccard(c[0], c[1])
		if got < 0 || got > 1 {
			t.Fatalf("Jaccard(%v, %v) = %v out of [0,1]", c[0], c[1], got)
		}
	}
}
