package repository

import (
	"encoding/json"
	"fmt"
	"os"

	"course-advisor/internal/domain"
)

// File-based catalog loading for the CLI and for environments without a
// database. Older exports used different field spellings (question_text vs
// prompt, strand vs recommended_track, minimum_average vs min_grade); both
// shapes are accepted and converted into the one canonical representation
// right here, so the engine never branches on input shape.

type fileOption struct {
	ID                   string   `json:"id"`
	Text                 string   `json:"text"`
	LegacyText           string   `json:"option_text"`
	Traits               []string `json:"traits"`
	LegacyTrait          string   `json:"trait"`
	Weight               float64  `json:"weight"`
	ExtraTraits          []string `json:"extra_traits"`
	RecommendedCourseIDs []string `json:"recommended_course_ids"`
}

type fileQuestion struct {
	ID           string       `json:"id"`
	Category     string       `json:"category"`
	Prompt       string       `json:"prompt"`
	LegacyPrompt string       `json:"question_text"`
	Options      []fileOption `json:"options"`
}

type fileCourse struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	MinGrade          float64  `json:"min_grade"`
	LegacyMinGrade    float64  `json:"minimum_average"`
	RecommendedTracks []string `json:"recommended_tracks"`
	LegacyStrand      string   `json:"strand"`
	Traits            []string `json:"traits"`
}

// LoadQuestionsFile reads and canonicalizes a question catalog.
func LoadQuestionsFile(path string) ([]domain.Question, error) {
	var raw []fileQuestion
	if err := readJSONFile(path, &raw); err != nil {
		return nil, err
	}

	questions := make([]domain.Question, 0, len(raw))
	for _, fq := range raw {
		q := domain.Question{
			ID:       fq.ID,
			Category: fq.Category,
			Prompt:   firstNonEmpty(fq.Prompt, fq.LegacyPrompt),
		}
		for _, fo := range fq.Options {
			opt := domain.Option{
				ID:                   fo.ID,
				Text:                 firstNonEmpty(fo.Text, fo.LegacyText),
				Traits:               fo.Traits,
				Weight:               fo.Weight,
				ExtraTraits:          fo.ExtraTraits,
				RecommendedCourseIDs: fo.RecommendedCourseIDs,
			}
			if len(opt.Traits) == 0 && fo.LegacyTrait != "" {
				opt.Traits = []string{fo.LegacyTrait}
			}
			q.Options = append(q.Options, opt)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// LoadCoursesFile reads and canonicalizes a course catalog.
func LoadCoursesFile(path string) ([]domain.Course, error) {
	var raw []fileCourse
	if err := readJSONFile(path, &raw); err != nil {
		return nil, err
	}

	courses := make([]domain.Course, 0, len(raw))
	for _, fc := range raw {
		c := domain.Course{
			ID:                fc.ID,
			Name:              fc.Name,
			Description:       fc.Description,
			MinGrade:          fc.MinGrade,
			RecommendedTracks: fc.RecommendedTracks,
			Traits:            fc.Traits,
		}
		if c.MinGrade == 0 {
			c.MinGrade = fc.LegacyMinGrade
		}
		if len(c.RecommendedTracks) == 0 && fc.LegacyStrand != "" {
			c.RecommendedTracks = splitList(fc.LegacyStrand)
		}
		courses = append(courses, c)
	}
	return courses, nil
}

// LoadTraitAliasesFile reads an optional raw -> canonical alias table.
func LoadTraitAliasesFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	var aliases map[string]string
	if err := readJSONFile(path, &aliases); err != nil {
		return nil, err
	}
	return aliases, nil
}

func readJSONFile(path string, out any) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalog file %s: %w", path, err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("parse catalog file %s: %w", path, err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
