package service

import "strings"

// TraitNormalizer maps raw trait labels onto a canonical vocabulary. The
// question bank and the course catalog evolved independently and use
// different words for equivalent concepts (a course tagged "Data-driven"
// must match an option tagged "Quantitative"); this table resolves that
// drift. Lookup is pure and total: unmapped labels come back unchanged.
type TraitNormalizer struct {
	aliases map[string]string
}

// defaultTraitAliases covers the known drift between the two catalogs.
// Keys are folded (lowercase, trimmed); values are canonical labels.
var defaultTraitAliases = map[string]string{
	"quantitative":    "Analytical",
	"data-driven":     "Analytical",
	"logical":         "Analytical",
	"problem-solver":  "Analytical",
	"mathematical":    "Analytical",
	"artistic":        "Creative",
	"imaginative":     "Creative",
	"innovative":      "Creative",
	"design-oriented": "Creative",
	"outgoing":        "Social",
	"people-oriented": "Social",
	"sociable":        "Social",
	"team-player":     "Social",
	"caring":          "Compassionate",
	"empathetic":      "Compassionate",
	"helping":         "Compassionate",
	"nurturing":       "Compassionate",
	"hands-on":        "Practical",
	"mechanical":      "Practical",
	"resourceful":     "Practical",
	"computer-savvy":  "Technical",
	"tech-inclined":   "Technical",
	"digital":         "Technical",
	"business-minded": "Entrepreneurial",
	"persuasive":      "Entrepreneurial",
	"risk-taker":      "Entrepreneurial",
	"sales-oriented":  "Entrepreneurial",
	"leader":          "Leadership",
	"decisive":        "Leadership",
	"organized":       "Methodical",
	"detail-oriented": "Methodical",
	"systematic":      "Methodical",
	"scientific":      "Investigative",
	"curious":         "Investigative",
	"experimental":    "Investigative",
	"inquisitive":     "Investigative",
	"verbal":          "Communicative",
	"articulate":      "Communicative",
	"expressive":      "Communicative",
	"athletic":        "Active",
	"outdoorsy":       "Active",
	"energetic":       "Active",
	"patient":         "Steady",
	"calm":            "Steady",
	"independent":     "Self-directed",
	"self-motivated":  "Self-directed",
}

// NewTraitNormalizer merges extra aliases (e.g. rows from the trait_aliases
// table) over the built-in defaults. Extra entries win on collision.
func NewTraitNormalizer(extra map[string]string) *TraitNormalizer {
	aliases := make(map[string]string, len(defaultTraitAliases)+len(extra))
	for raw, canonical := range defaultTraitAliases {
		aliases[raw] = canonical
	}
	for raw, canonical := range extra {
		canonical = strings.TrimSpace(canonical)
		if key := foldTraitKey(raw); key != "" && canonical != "" {
			aliases[key] = canonical
		}
	}
	return &TraitNormalizer{aliases: aliases}
}

// Normalize resolves one raw label. Never fails: labels absent from the
// table are returned trimmed but otherwise unchanged.
func (n *TraitNormalizer) Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if canonical, ok := n.aliases[foldTraitKey(raw)]; ok {
		return canonical
	}
	return raw
}

// NormalizeAll resolves a list of labels, dropping empties and duplicates
// while preserving first-seen order.
func (n *TraitNormalizer) NormalizeAll(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, label := range raw {
		canonical := n.Normalize(label)
		if canonical == "" {
			continue
		}
		if _, ok := seen[canonical]; ok {
			continue
		}
		seen[canonical] = struct{}{}
		out = append(out, canonical)
	}
	return out
}

func foldTraitKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
