package models

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"
)

// CandidateRecord is the durable record collected during a screening session.
// It is the unit stored in the candidate store, keyed by ID.
type CandidateRecord struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name,omitempty"`
	Email              string            `json:"email,omitempty"`
	Phone              string            `json:"phone,omitempty"`
	ExperienceYears    int               `json:"experience_years"`
	DesiredPosition    string            `json:"desired_position,omitempty"`
	Location           string            `json:"location,omitempty"`
	TechStack          []string          `json:"tech_stack,omitempty"`
	TechStackRaw       string            `json:"tech_stack_raw,omitempty"`
	TechnicalQuestions []string          `json:"technical_questions,omitempty"`
	TechnicalResponses map[string]string `json:"technical_responses,omitempty"`
	SessionCompleted   bool              `json:"session_completed"`
	Anonymized         bool              `json:"anonymized,omitempty"`
	AnonymizedDate     string            `json:"anonymized_date,omitempty"`
	Timestamp          string            `json:"timestamp,omitempty"`
	LastUpdated        string            `json:"last_updated,omitempty"`
	CompletionTime     string            `json:"completion_time,omitempty"`
}

// CandidateID derives the stable record key from an email address. The key is
// a pure function of the lower-cased email so repeated sessions for the same
// address collapse onto one stored record.
func CandidateID(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(email)))
	return hex.EncodeToString(sum[:])[:8]
}

// Now returns the ISO-8601 timestamp used for all record time marks.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Turn is one entry in a session transcript.
type Turn struct {
	Role      string `json:"role"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// SentimentMetrics is the structured result of scoring one candidate utterance.
type SentimentMetrics struct {
	ConfidenceScore    float64  `json:"confidence_score"`
	EmotionCategory    string   `json:"emotion_category"`
	StressIndicators   []string `json:"stress_indicators"`
	PositiveIndicators []string `json:"positive_indicators"`
	OverallSentiment   string   `json:"overall_sentiment"`
}

// SentimentSummary is the display-oriented view of SentimentMetrics handed to
// the rendering layer.
type SentimentSummary struct {
	ConfidenceLevel  string `json:"confidence_level"`
	PrimaryEmotion   string `json:"primary_emotion"`
	OverallSentiment string `json:"overall_sentiment"`
	StressLevel      string `json:"stress_level"`
	Engagement       string `json:"engagement"`
}

// SentimentEntry is one item in a session's sentiment history, recorded for
// every candidate turn after the greeting exchange.
type SentimentEntry struct {
	Timestamp string           `json:"timestamp"`
	Stage     string           `json:"stage"`
	UserInput string           `json:"user_input"`
	Sentiment SentimentMetrics `json:"sentiment"`
}
