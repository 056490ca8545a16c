package sentiment_test

import (
	"testing"

	"github.com/talentscout/screener/internal/sentiment"
)

func TestAnalyze_ConfidentResponse(t *testing.T) {
	m := sentiment.Analyze("I'm very confident in my Python skills and have built many successful web applications over the years.")
	if m.ConfidenceScore <= 0.5 {
		t.Fatalf("expected confidence above neutral, got %f", m.ConfidenceScore)
	}
	if m.OverallSentiment == "negative" {
		t.Fatalf("unexpected negative sentiment: %+v", m)
	}
	if len(m.PositiveIndicators) == 0 {
		t.Fatalf("expected positive indicators")
	}
}

func TestAnalyze_NervousResponse(t *testing.T) {
	// "don't know" and "maybe" are low-confidence hits with no high-confidence
	// keyword to offset them
	m := sentiment.Analyze("Um, well... I guess I don't know Django that well, maybe?")
	if m.ConfidenceScore >= 0.5 {
		t.Fatalf("expected confidence below neutral, got %f", m.ConfidenceScore)
	}
	if m.EmotionCategory != "nervous" {
		t.Fatalf("expected nervous emotion, got %s", m.EmotionCategory)
	}
	if len(m.StressIndicators) == 0 {
		t.Fatalf("expected stress indicators")
	}
}

func TestAnalyze_EmptyInputIsNeutral(t *testing.T) {
	m := sentiment.Analyze("   ")
	if m.EmotionCategory != "neutral" || m.OverallSentiment != "neutral" {
		t.Fatalf("expected neutral defaults, got %+v", m)
	}
	if m.ConfidenceScore != 0.5 {
		t.Fatalf("expected neutral confidence, got %f", m.ConfidenceScore)
	}
}

func TestAnalyze_ConfidenceBounds(t *testing.T) {
	cases := []string{
		"confident sure definitely absolutely experienced expert proficient I love this amazing fantastic work",
		"unsure maybe not sure don't know uncertain confused",
		"",
	}
	for _, input := range cases {
		m := sentiment.Analyze(input)
		if m.ConfidenceScore < 0.0 || m.ConfidenceScore > 1.0 {
			t.Fatalf("confidence out of bounds for %q: %f", input, m.ConfidenceScore)
		}
	}
}

func TestSummarize(t *testing.T) {
	// love + enjoy + passion: three positive hits, the High engagement floor
	m := sentiment.Analyze("I absolutely love working with React! It's amazing and I enjoy the passion projects I build with it.")
	s := sentiment.Summarize(m)
	if s.PrimaryEmotion != "Excited" {
		t.Fatalf("expected Excited, got %s", s.PrimaryEmotion)
	}
	if s.Engagement != "High" {
		t.Fatalf("expected High engagement, got %s", s.Engagement)
	}
	if s.ConfidenceLevel == "" {
		t.Fatalf("expected formatted confidence level")
	}
}

func TestSummarize_TwoPositiveHitsIsMediumEngagement(t *testing.T) {
	m := sentiment.Analyze("I love React and enjoy building with it.")
	if got := len(m.PositiveIndicators); got != 2 {
		t.Fatalf("expected 2 positive indicators, got %d (%v)", got, m.PositiveIndicators)
	}
	if s := sentiment.Summarize(m); s.Engagement != "Medium" {
		t.Fatalf("expected Medium engagement, got %s", s.Engagement)
	}
}

func TestFeedbackPrompt(t *testing.T) {
	nervous := sentiment.Analyze("Um, well, not really sure... maybe?")
	if got := sentiment.FeedbackPrompt(nervous); got == "Continue with normal interview flow." {
		t.Fatalf("expected nervous-specific feedback, got %q", got)
	}
	neutral := sentiment.Neutral()
	if got := sentiment.FeedbackPrompt(neutral); got != "Continue with normal interview flow." {
		t.Fatalf("expected default feedback, got %q", got)
	}
}
