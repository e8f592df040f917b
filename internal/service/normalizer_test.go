package service

import "testing"

func TestNormalizeIdentityFallback(t *testing.T) {
	n := NewTraitNormalizer(nil)

	if got := n.Normalize("Analytical"); got != "Analytical" {
		t.Fatalf("expected identity for canonical label, got %q", got)
	}
	if got := n.Normalize("SomethingNobodyMapped"); got != "SomethingNobodyMapped" {
		t.Fatalf("expected unmapped label unchanged, got %q", got)
	}
	if got := n.Normalize("  padded  "); got != "padded" {
		t.Fatalf("expected trimmed fallback, got %q", got)
	}
}

func TestNormalizeResolvesCatalogDrift(t *testing.T) {
	n := NewTraitNormalizer(nil)

	// A course tagged "Data-driven" must match an option tagged "Quantitative".
	courseSide := n.Normalize("Data-driven")
	optionSide := n.Normalize("Quantitative")
	if courseSide != optionSide {
		t.Fatalf("expected equivalent labels to share a canonical trait, got %q vs %q", courseSide, optionSide)
	}
	if courseSide != "Analytical" {
		t.Fatalf("expected canonical Analytical, got %q", courseSide)
	}
}

func TestNormalizeCaseInsensitive(t *testing.T) {
	n := NewTraitNormalizer(nil)

	if got := n.Normalize("QUANTITATIVE"); got != "Analytical" {
		t.Fatalf("expected case-insensitive lookup, got %q", got)
	}
	if got := n.Normalize(" artistic "); got != "Creative" {
		t.Fatalf("expected trimmed lookup, got %q", got)
	}
}

func TestNormalizeExtraAliasesWin(t *testing.T) {
	n := NewTraitNormalizer(map[string]string{
		"Quantitative": "Numerate",
		"Bookish":      "Scholarly",
	})

	if got := n.Normalize("quantitative"); got != "Numerate" {
		t.Fatalf("expected extra alias to override default, got %q", got)
	}
	if got := n.Normalize("bookish"); got != "Scholarly" {
		t.Fatalf("expected extra alias applied, got %q", got)
	}
}

func TestNormalizeAllDedupes(t *testing.T) {
	n := NewTraitNormalizer(nil)

	got := n.NormalizeAll([]string{"Quantitative", "Data-driven", "Creative", "", "artistic"})
	want := []string{"Analytical", "Creative"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
