package registry

import "testing"

func TestOrderedFromHonorsExplicitOrder(t *testing.T) {
	ordered := OrderedFrom([]string{"stderr", "json"})
	if len(ordered) != 3 {
		t.Fatalf("len(ordered) = %d, want 3 (csv appended)", len(ordered))
	}
	if ordered[0].Name() != "stderr" || ordered[1].Name() != "json" {
		t.Fatalf("ordered = [%s, %s, ...], want [stderr, json, ...]", ordered[0].Name(), ordered[1].Name())
	}
	if ordered[2].Name() != "csv" {
		t.Fatalf("ordered[2] = %s, want csv (appended default)", ordered[2].Name())
	}
}

func TestOrderedFromIgnoresUnknownNames(t *testing.T) {
	ordered := OrderedFrom([]string{"nonexistent", "json"})
	if len(ordered) != 3 {
		t.Fatalf("len(ordered) = %d, want 3", len(ordered))
	}
	if ordered[0].Name() != "json" {
		t.Fatalf("ordered[0] = %s, want json", ordered[0].Name())
	}
}

func TestOrderedFromEmptyFallsBackToDefault(t *testing.T) {
	ordered := OrderedFrom(nil)
	def := Default()
	if len(ordered) != len(def) {
		t.Fatalf("len(ordered) = %d, want %d", len(ordered), len(def))
	}
	for i := range def {
		if ordered[i].Name() != def[i].Name() {
			t.Fatalf("ordered[%d] = %s, want %s", i, ordered[i].Name(), def[i].Name())
		}
	}
}
