package interview

import (
	"fmt"
	"regexp"
	"strings"
)

const maxTechStack = 10

var difficultyDescriptions = map[string]string{
	"beginner":     "0-2 years experience",
	"intermediate": "2-5 years experience",
	"advanced":     "5+ years experience",
}

// DifficultyFor maps years of experience to a question difficulty tier.
func DifficultyFor(years int) string {
	switch {
	case years <= 2:
		return "beginner"
	case years <= 5:
		return "intermediate"
	default:
		return "advanced"
	}
}

// numberedLine matches "N. rest" where N is 1-5; the period and the space
// are both optional.
var numberedLine = regexp.MustCompile(`^([1-5])\.?\s*(.*)$`)

// ParseNumberedList extracts question text from a model-generated numbered
// list. Lines that do not match the grammar are skipped, never an error.
func ParseNumberedList(text string) []string {
	var questions []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := numberedLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if q := strings.TrimSpace(m[2]); q != "" {
			questions = append(questions, q)
		}
	}
	return questions
}

// ParseTechList splits a comma-separated technology list, trims entries,
// drops duplicates case-insensitively (first occurrence wins, order
// preserved), and caps the result at ten entries. The NONE sentinel yields
// an empty list.
func ParseTechList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, noneSentinel) {
		return nil
	}

	seen := make(map[string]bool)
	var techs []string
	for _, part := range strings.Split(s, ",") {
		tech := strings.TrimSpace(part)
		if tech == "" {
			continue
		}
		key := strings.ToLower(tech)
		if seen[key] {
			continue
		}
		seen[key] = true
		techs = append(techs, tech)
		if len(techs) == maxTechStack {
			break
		}
	}
	return techs
}

// FallbackQuestions is the fixed question set used when generation fails or
// returns nothing parseable.
func FallbackQuestions(techStack []string) []string {
	main := "your main technology"
	if len(techStack) > 0 {
		main = techStack[0]
	}
	return []string{
		fmt.Sprintf("Can you explain a challenging project you worked on using %s?", main),
		"How do you approach debugging when you encounter a difficult bug?",
		"What's your experience with version control and team collaboration?",
	}
}
