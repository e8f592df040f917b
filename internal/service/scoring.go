package service

import (
	"sort"
	"strings"

	"course-advisor/internal/domain"
)

// ScoringConfig holds the tuning knobs of the scoring engine. The defaults
// are the empirically chosen production values; they are configuration, not
// structural invariants.
type ScoringConfig struct {
	// RankWeights apply to the top accumulated traits in rank order.
	RankWeights []float64
	// AcademicSlope scales the grade margin into a bonus or penalty.
	AcademicBonusSlope   float64
	AcademicPenaltySlope float64
	AcademicBonusCap     float64
	AcademicPenaltyCap   float64
	// Track alignment contributions.
	TrackExactBonus       float64
	TrackRelatedBonus     float64
	TrackRelatedPenalty   float64
	TrackUnrelatedPenalty float64
	// Confidence split between score separation and answer volume.
	GapWeight      float64
	QuestionWeight float64
}

func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		RankWeights:           []float64{5, 4, 3, 2, 1},
		AcademicBonusSlope:    1.5,
		AcademicPenaltySlope:  2.0,
		AcademicBonusCap:      15,
		AcademicPenaltyCap:    30,
		TrackExactBonus:       20,
		TrackRelatedBonus:     10,
		TrackRelatedPenalty:   4,
		TrackUnrelatedPenalty: 8,
		GapWeight:             0.7,
		QuestionWeight:        0.3,
	}
}

// relatedTracks is the fixed adjacency table between academic tracks. Keys
// and values are folded for comparison.
var relatedTracks = map[string][]string{
	"stem":  {"ict"},
	"ict":   {"stem", "tvl"},
	"abm":   {"gas", "he"},
	"humss": {"gas"},
	"gas":   {"abm", "humss"},
	"tvl":   {"ict", "he"},
	"he":    {"tvl", "abm"},
}

// ScoringEngine computes compatibility between an accumulated trait profile
// plus academic record and every candidate course.
type ScoringEngine struct {
	catalog *Catalog
	cfg     ScoringConfig
}

func NewScoringEngine(catalog *Catalog, cfg ScoringConfig) *ScoringEngine {
	if len(cfg.RankWeights) == 0 {
		cfg = DefaultScoringConfig()
	}
	return &ScoringEngine{catalog: catalog, cfg: cfg}
}

type rankedTrait struct {
	trait  string
	score  float64
	weight float64
}

// ScoreCourses ranks every course against the trait profile. Scores are
// normalized to [0,100] against the maximum any course could reach with this
// profile. Order is deterministic: score descending, course id ascending.
func (e *ScoringEngine) ScoreCourses(traitScores map[string]float64, academic *domain.AcademicRecord) []domain.CourseMatch {
	top := e.topTraits(traitScores)
	maxPossible := e.maxPossibleScore(top)

	matches := make([]domain.CourseMatch, 0, len(e.catalog.courses))
	for _, course := range e.catalog.courses {
		raw, matched := e.rawCourseScore(course, top, academic)
		pct := 0.0
		if maxPossible > 0 {
			pct = raw / maxPossible * 100
		}
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		matches = append(matches, domain.CourseMatch{
			CourseID:      course.ID,
			CourseName:    course.Name,
			Score:         pct,
			MatchedTraits: matched,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].CourseID < matches[j].CourseID
	})
	return matches
}

// topTraits sorts the accumulator by score descending (name ascending on
// ties, for reproducibility) and keeps as many as there are rank weights.
func (e *ScoringEngine) topTraits(traitScores map[string]float64) []rankedTrait {
	ranked := make([]rankedTrait, 0, len(traitScores))
	for trait, score := range traitScores {
		if score <= 0 {
			continue
		}
		ranked = append(ranked, rankedTrait{trait: trait, score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].trait < ranked[j].trait
	})
	if len(ranked) > len(e.cfg.RankWeights) {
		ranked = ranked[:len(e.cfg.RankWeights)]
	}
	for i := range ranked {
		ranked[i].weight = e.cfg.RankWeights[i]
	}
	return ranked
}

// maxPossibleScore is what a course matching every top trait, clearing the
// grade threshold at the bonus cap and aligning exactly on track would earn.
func (e *ScoringEngine) maxPossibleScore(top []rankedTrait) float64 {
	total := 0.0
	for _, rt := range top {
		total += rt.score * rt.weight
	}
	return total + e.cfg.AcademicBonusCap + e.cfg.TrackExactBonus
}

func (e *ScoringEngine) rawCourseScore(course domain.Course, top []rankedTrait, academic *domain.AcademicRecord) (float64, []string) {
	courseTraits := make(map[string]struct{}, len(course.Traits))
	for _, trait := range course.Traits {
		courseTraits[trait] = struct{}{}
	}

	total := 0.0
	var matched []string
	for _, rt := range top {
		if _, ok := courseTraits[rt.trait]; !ok {
			continue
		}
		total += rt.score * rt.weight
		matched = append(matched, rt.trait)
	}

	if academic != nil {
		total += e.academicContribution(course, academic)
		total += e.trackContribution(course, academic)
	}
	return total, matched
}

// academicContribution grades the margin against the course threshold:
// graduated and capped in both directions, so a 1-point miss costs far less
// than a 10-point one.
func (e *ScoringEngine) academicContribution(course domain.Course, academic *domain.AcademicRecord) float64 {
	if academic.Average <= 0 || course.MinGrade <= 0 {
		return 0
	}
	margin := academic.Average - course.MinGrade
	if margin >= 0 {
		bonus := margin * e.cfg.AcademicBonusSlope
		if bonus > e.cfg.AcademicBonusCap {
			bonus = e.cfg.AcademicBonusCap
		}
		return bonus
	}
	penalty := -margin * e.cfg.AcademicPenaltySlope
	if penalty > e.cfg.AcademicPenaltyCap {
		penalty = e.cfg.AcademicPenaltyCap
	}
	return -penalty
}

func (e *ScoringEngine) trackContribution(course domain.Course, academic *domain.AcademicRecord) float64 {
	track := strings.ToLower(strings.TrimSpace(academic.Track))
	if track == "" || len(course.RecommendedTracks) == 0 {
		return 0
	}
	for _, rec := range course.RecommendedTracks {
		if strings.ToLower(strings.TrimSpace(rec)) == track {
			return e.cfg.TrackExactBonus
		}
	}
	for _, rec := range course.RecommendedTracks {
		for _, related := range relatedTracks[strings.ToLower(strings.TrimSpace(rec))] {
			if related == track {
				return e.cfg.TrackRelatedBonus - e.cfg.TrackRelatedPenalty
			}
		}
	}
	return -e.cfg.TrackUnrelatedPenalty
}

// Confidence estimates how trustworthy the ranking is, in [0,100]. It blends
// how distinctly the top five courses stand out from the field (a flat score
// distribution stays low no matter how many questions were answered) with
// how much of the question budget was actually used.
func (e *ScoringEngine) Confidence(matches []domain.CourseMatch, answeredCount, maxQuestions int) float64 {
	gap := e.gapRatio(matches)

	questionFactor := 0.0
	if maxQuestions > 0 {
		questionFactor = float64(answeredCount) / (0.5 * float64(maxQuestions))
		if questionFactor > 1 {
			questionFactor = 1
		}
	}

	confidence := (gap*e.cfg.GapWeight + questionFactor*e.cfg.QuestionWeight) * 100
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}
	return confidence
}

// gapRatio compares the average score of the top five courses against the
// average of ranks six through fifteen. Small catalogs degrade gracefully:
// whatever exists beyond the top five is used, and with nothing beyond it a
// neutral 0.5 avoids dividing by zero.
func (e *ScoringEngine) gapRatio(matches []domain.CourseMatch) float64 {
	topEnd := 5
	if topEnd > len(matches) {
		topEnd = len(matches)
	}
	restEnd := 15
	if restEnd > len(matches) {
		restEnd = len(matches)
	}
	if topEnd == 0 || restEnd <= topEnd {
		return 0.5
	}

	topAvg := averageScore(matches[:topEnd])
	restAvg := averageScore(matches[topEnd:restEnd])
	if topAvg <= 0 {
		return 0
	}
	gap := (topAvg - restAvg) / topAvg
	if gap < 0 {
		gap = 0
	}
	if gap > 1 {
		gap = 1
	}
	return gap
}

func averageScore(matches []domain.CourseMatch) float64 {
	if len(matches) == 0 {
		return 0
	}
	total := 0.0
	for _, m := range matches {
		total += m.Score
	}
	return total / float64(len(matches))
}
