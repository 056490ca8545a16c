// Package sentiment scores candidate utterances with a small rule-based
// model: keyword tables for confidence and emotion, regex patterns for
// stress markers. It is pure and never fails; unknown input degrades to a
// neutral reading.
package sentiment

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/talentscout/screener/pkg/models"
)

var confidenceKeywords = map[string][]string{
	"high":   {"confident", "sure", "definitely", "absolutely", "experienced", "expert", "proficient"},
	"medium": {"think", "believe", "probably", "likely", "familiar", "comfortable"},
	"low":    {"unsure", "maybe", "not sure", "don't know", "uncertain", "confused"},
}

var emotionPatterns = map[string][]string{
	"nervous":    {"um", "uh", "well...", "i guess", "not really sure"},
	"excited":    {"love", "enjoy", "passion", "amazing", "fantastic", "excited"},
	"frustrated": {"difficult", "hard", "challenging", "struggle", "problem"},
	"confident":  {"experienced", "skilled", "accomplished", "successful", "expertise"},
}

var positiveWords = []string{
	"enjoy", "love", "passion", "excited", "accomplished",
	"successful", "proud", "confident", "skilled", "experienced",
}

var stressPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(um|uh|well|like)\b`),
	regexp.MustCompile(`\.{3,}`),
	regexp.MustCompile(`\?\?+`),
	regexp.MustCompile(`(?i)I don't know`),
	regexp.MustCompile(`(?i)not sure`),
	regexp.MustCompile(`(?i)maybe`),
}

// Neutral is the default reading used when scoring is skipped or fails.
func Neutral() models.SentimentMetrics {
	return models.SentimentMetrics{
		ConfidenceScore:    0.5,
		EmotionCategory:    "neutral",
		StressIndicators:   []string{},
		PositiveIndicators: []string{},
		OverallSentiment:   "neutral",
	}
}

// Analyze scores a single candidate utterance.
func Analyze(text string) models.SentimentMetrics {
	if strings.TrimSpace(text) == "" {
		return Neutral()
	}
	lower := strings.ToLower(text)

	confidence := calculateConfidence(lower)
	emotion := detectPrimaryEmotion(lower)
	stress := findStressIndicators(text)
	positive := findPositiveIndicators(lower)

	return models.SentimentMetrics{
		ConfidenceScore:    confidence,
		EmotionCategory:    emotion,
		StressIndicators:   stress,
		PositiveIndicators: positive,
		OverallSentiment:   overallSentiment(confidence, len(stress), len(positive)),
	}
}

// Summarize formats metrics for the rendering layer.
func Summarize(m models.SentimentMetrics) models.SentimentSummary {
	stressLevel := "Low"
	switch {
	case len(m.StressIndicators) > 3:
		stressLevel = "High"
	case len(m.StressIndicators) > 1:
		stressLevel = "Medium"
	}

	engagement := "Low"
	switch {
	case len(m.PositiveIndicators) > 2:
		engagement = "High"
	case len(m.PositiveIndicators) > 0:
		engagement = "Medium"
	}

	return models.SentimentSummary{
		ConfidenceLevel:  fmt.Sprintf("%.0f%%", m.ConfidenceScore*100),
		PrimaryEmotion:   title(m.EmotionCategory),
		OverallSentiment: title(m.OverallSentiment),
		StressLevel:      stressLevel,
		Engagement:       engagement,
	}
}

// FeedbackPrompt suggests an interviewer tone adjustment from a reading.
func FeedbackPrompt(m models.SentimentMetrics) string {
	switch {
	case m.EmotionCategory == "nervous" || m.ConfidenceScore < 0.4:
		return "The candidate seems nervous. Use encouraging language and provide reassurance."
	case m.EmotionCategory == "confident" && m.ConfidenceScore > 0.8:
		return "The candidate is very confident. You can ask more challenging follow-up questions."
	case m.EmotionCategory == "frustrated":
		return "The candidate may be struggling. Offer to clarify or move to a different topic."
	case m.EmotionCategory == "excited":
		return "The candidate is enthusiastic. You can explore their passion areas in more depth."
	default:
		return "Continue with normal interview flow."
	}
}

func calculateConfidence(lower string) float64 {
	score := 0.5

	for _, kw := range confidenceKeywords["high"] {
		if strings.Contains(lower, kw) {
			score += 0.15
		}
	}
	for _, kw := range confidenceKeywords["medium"] {
		if strings.Contains(lower, kw) {
			score += 0.05
		}
	}
	for _, kw := range confidenceKeywords["low"] {
		if strings.Contains(lower, kw) {
			score -= 0.2
		}
	}

	// longer, detailed answers read as more confident
	words := len(strings.Fields(lower))
	if words > 50 {
		score += 0.1
	} else if words < 10 {
		score -= 0.1
	}

	return min(1.0, max(0.0, score))
}

func detectPrimaryEmotion(lower string) string {
	best := "neutral"
	bestScore := 0
	// iterate a fixed order so ties are deterministic
	for _, emotion := range []string{"confident", "excited", "nervous", "frustrated"} {
		score := 0
		for _, p := range emotionPatterns[emotion] {
			if strings.Contains(lower, p) {
				score++
			}
		}
		if score > bestScore {
			best = emotion
			bestScore = score
		}
	}
	return best
}

func findStressIndicators(text string) []string {
	indicators := []string{}
	for _, re := range stressPatterns {
		indicators = append(indicators, re.FindAllString(text, -1)...)
	}
	return indicators
}

func findPositiveIndicators(lower string) []string {
	indicators := []string{}
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			indicators = append(indicators, w)
		}
	}
	return indicators
}

func overallSentiment(confidence float64, stressCount, positiveCount int) string {
	switch {
	case confidence > 0.7 && positiveCount > stressCount:
		return "positive"
	case confidence < 0.3 || stressCount > positiveCount+2:
		return "negative"
	default:
		return "neutral"
	}
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
