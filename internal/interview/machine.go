package interview

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/talentscout/screener/internal/sentiment"
	"github.com/talentscout/screener/pkg/models"
	"github.com/talentscout/screener/pkg/repository"
)

// Generator is the text-generation capability the machine depends on. It is
// satisfied by *genai.Client; tests use scripted fakes.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config carries the knobs the machine needs from the application config.
type Config struct {
	CompanyName  string
	ExitKeywords []string
}

// TurnResult is what the machine hands the rendering layer after each turn.
type TurnResult struct {
	Reply     string                  `json:"reply"`
	Stage     string                  `json:"stage"`
	Candidate models.CandidateRecord  `json:"candidate"`
	Sentiment models.SentimentSummary `json:"sentiment"`
}

// Machine drives one interview session. It is not safe for concurrent use;
// the session manager serializes turns per session.
type Machine struct {
	gen    Generator
	store  repository.CandidateStore
	cfg    Config
	logger *slog.Logger

	stage         Stage
	step          InfoStep
	greeted       bool
	questionIndex int

	candidateID string
	candidate   models.CandidateRecord
	history     []models.Turn
	sentiments  []models.SentimentEntry
}

func NewMachine(gen Generator, store repository.CandidateStore, cfg Config, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.CompanyName == "" {
		cfg.CompanyName = "TalentScout"
	}
	return &Machine{
		gen:    gen,
		store:  store,
		cfg:    cfg,
		logger: logger,
		stage:  StageGreeting,
		step:   StepName,
	}
}

// Start emits the fixed welcome message. Idempotent: repeated calls return
// the same text without re-recording it.
func (m *Machine) Start() string {
	greeting := fmt.Sprintf(`Hello! Welcome to %s's Hiring Assistant!

I'm here to help with your initial screening for technology positions. I'll be gathering some basic information about you and then asking a few technical questions based on your expertise.

This process will take about 10-15 minutes and will help our recruiters better understand your background.

To get started, could you please tell me your full name?

(You can type 'exit' or 'bye' at any time if you need to leave)`, m.cfg.CompanyName)

	if !m.greeted {
		m.greeted = true
		m.addTurn("assistant", greeting)
	}
	return greeting
}

// ProcessMessage runs one user turn through the per-turn pipeline: sentiment
// tagging, exit-intent check, then stage dispatch. It always produces a reply;
// store and capability failures degrade per their documented fallbacks and
// never leave the stage or step partially advanced.
func (m *Machine) ProcessMessage(ctx context.Context, input string) TurnResult {
	if strings.TrimSpace(input) == "" {
		return m.result("I didn't receive any input. Could you please say something?")
	}

	// tag every turn after the greeting exchange
	if m.stage != StageGreeting {
		metrics := sentiment.Analyze(input)
		m.sentiments = append(m.sentiments, models.SentimentEntry{
			Timestamp: models.Now(),
			Stage:     m.stage.String(),
			UserInput: input,
			Sentiment: metrics,
		})
	}

	m.addTurn("user", input)

	if m.hasExitIntent(input) {
		reply := m.handleExit(ctx)
		m.addTurn("assistant", reply)
		return m.result(reply)
	}

	var reply string
	switch m.stage {
	case StageGreeting:
		reply = m.handleGreeting(ctx, input)
	case StageCollectingInfo:
		reply = m.handleInfoCollection(ctx, input)
	case StageTechStack:
		reply = m.handleTechStack(ctx, input)
	case StageTechnicalQuestions:
		reply = m.handleTechnicalQuestions(ctx, input)
	case StageCompletion:
		reply = m.handleCompleted()
	default:
		reply = m.handleFallback(ctx, input)
	}

	m.addTurn("assistant", reply)
	return m.result(reply)
}

// Stage returns the current interview stage.
func (m *Machine) Stage() Stage { return m.stage }

// Step returns the current info-collection step.
func (m *Machine) Step() InfoStep { return m.step }

// Candidate returns a snapshot of the in-memory record.
func (m *Machine) Candidate() models.CandidateRecord {
	rec := m.candidate
	rec.TechStack = append([]string(nil), m.candidate.TechStack...)
	rec.TechnicalQuestions = append([]string(nil), m.candidate.TechnicalQuestions...)
	if m.candidate.TechnicalResponses != nil {
		rec.TechnicalResponses = make(map[string]string, len(m.candidate.TechnicalResponses))
		for k, v := range m.candidate.TechnicalResponses {
			rec.TechnicalResponses[k] = v
		}
	}
	return rec
}

// History returns the transcript so far.
func (m *Machine) History() []models.Turn {
	return append([]models.Turn(nil), m.history...)
}

// SentimentHistory returns every recorded sentiment entry.
func (m *Machine) SentimentHistory() []models.SentimentEntry {
	return append([]models.SentimentEntry(nil), m.sentiments...)
}

// LatestSentiment summarizes the most recent reading, neutral before any
// candidate turn has been scored.
func (m *Machine) LatestSentiment() models.SentimentSummary {
	if len(m.sentiments) == 0 {
		return sentiment.Summarize(sentiment.Neutral())
	}
	return sentiment.Summarize(m.sentiments[len(m.sentiments)-1].Sentiment)
}

func (m *Machine) result(reply string) TurnResult {
	return TurnResult{
		Reply:     reply,
		Stage:     m.stage.String(),
		Candidate: m.Candidate(),
		Sentiment: m.LatestSentiment(),
	}
}

func (m *Machine) addTurn(role, message string) {
	m.history = append(m.history, models.Turn{
		Role:      role,
		Message:   message,
		Timestamp: models.Now(),
	})
}

func (m *Machine) hasExitIntent(input string) bool {
	lower := strings.ToLower(input)
	for _, kw := range m.cfg.ExitKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// handleExit persists whatever partial record exists and says goodbye. The
// stage is deliberately left unchanged so a follow-up message resumes where
// the candidate left off.
func (m *Machine) handleExit(ctx context.Context) string {
	if m.candidate.Email != "" {
		rec := m.candidate
		if _, err := m.store.Upsert(ctx, &rec); err != nil {
			m.logger.Error("partial save on exit failed", slog.String("id", m.candidateID), slog.Any("err", err))
		}
	}

	return fmt.Sprintf(`Thank you for your time with %s's Hiring Assistant!

If you'd like to complete the screening process later, please feel free to return and start a new session.

Have a great day!`, m.cfg.CompanyName)
}

func (m *Machine) handleGreeting(ctx context.Context, input string) string {
	if !m.greeted {
		return m.Start()
	}

	name, ok := m.extractField(ctx, "name", input)
	if !ok {
		return "I didn't catch your name clearly. Could you please tell me your full name?"
	}

	m.candidate.Name = name
	m.stage = StageCollectingInfo
	m.step = StepEmail
	return fmt.Sprintf("Nice to meet you, %s! Now, could you please provide your email address?", name)
}

func (m *Machine) handleInfoCollection(ctx context.Context, input string) string {
	switch m.step {
	case StepName:
		// reachable only if a session was resumed into an odd state
		name, ok := m.extractField(ctx, "name", input)
		if !ok {
			return "I didn't catch your name clearly. Could you please tell me your full name?"
		}
		m.candidate.Name = name
		m.step = StepEmail
		return fmt.Sprintf("Nice to meet you, %s! Now, could you please provide your email address?", name)

	case StepEmail:
		email, ok := m.extractField(ctx, "email", input)
		if !ok || !strings.Contains(email, "@") {
			return "Please provide a valid email address (e.g., john@example.com)"
		}
		m.candidate.Email = email
		m.candidateID = models.CandidateID(email)
		m.candidate.ID = m.candidateID
		m.step = StepPhone
		return "Great! Now, what's your phone number?"

	case StepPhone:
		phone, ok := m.extractField(ctx, "phone number", input)
		if !ok {
			return "Could you please provide your phone number?"
		}
		m.candidate.Phone = phone
		m.step = StepExperience
		return "Perfect! How many years of professional experience do you have? (Please provide just the number)"

	case StepExperience:
		// extraction is advisory here: the number is always re-derived
		// from a digit scan of the extracted or raw text
		extracted, _ := m.extractField(ctx, "years of experience", input)
		years, ok := firstNumber(extracted)
		if !ok {
			years, ok = firstNumber(input)
		}
		if !ok {
			return "Please provide your years of experience as a number (e.g., 3, 5, 10)"
		}
		m.candidate.ExperienceYears = years
		m.step = StepPosition
		return "Excellent! What position(s) are you interested in? (e.g., Software Engineer, Data Scientist, etc.)"

	case StepPosition:
		m.candidate.DesiredPosition = strings.TrimSpace(input)
		m.step = StepLocation
		return "Great choice! What's your current location or preferred work location?"

	case StepLocation:
		m.candidate.Location = strings.TrimSpace(input)
		m.stage = StageTechStack
		return techStackPrompt

	default:
		m.step = StepName
		return "Let me get your basic information. Could you please tell me your name?"
	}
}

const techStackPrompt = `Perfect! Now I need to understand your technical background to ask relevant questions.

Please tell me about your tech stack. Include:
- Programming languages you're proficient in
- Frameworks you've worked with
- Databases you've used
- Any other tools or technologies you're comfortable with

For example: "I work with Python, Django, PostgreSQL, React, and AWS"

What technologies do you work with?`

func (m *Machine) handleTechStack(ctx context.Context, input string) string {
	techStack := m.extractTechStack(ctx, input)
	if len(techStack) == 0 {
		return "Could you please specify the technologies you work with? For example: Python, React, MySQL, etc."
	}

	m.candidate.TechStack = techStack
	m.candidate.TechStackRaw = input

	// checkpoint write: the record becomes durable once the tech stack is known
	rec := m.candidate
	if id, err := m.store.Upsert(ctx, &rec); err != nil {
		m.logger.Error("checkpoint save failed", slog.Any("err", err))
	} else {
		m.candidateID = id
		m.candidate.ID = id
		m.candidate.Timestamp = rec.Timestamp
	}

	questions := m.generateQuestions(ctx)
	m.candidate.TechnicalQuestions = questions
	m.questionIndex = 0
	m.stage = StageTechnicalQuestions

	return fmt.Sprintf(`Great! I can see you work with: %s

Now I'll ask you %d technical questions to assess your proficiency.
These questions are tailored to your experience level and the technologies you mentioned.

Let's start with the first question:

**Question 1:** %s`, strings.Join(techStack, ", "), len(questions), questions[0])
}

func (m *Machine) handleTechnicalQuestions(ctx context.Context, input string) string {
	if m.candidate.TechnicalResponses == nil {
		m.candidate.TechnicalResponses = map[string]string{}
	}
	// repeated answers to the same index overwrite, matching the store's
	// merge semantics
	key := fmt.Sprintf("question_%d", m.questionIndex+1)
	m.candidate.TechnicalResponses[key] = input
	m.questionIndex++

	if m.questionIndex < len(m.candidate.TechnicalQuestions) {
		return fmt.Sprintf(`Thank you for your answer!

**Question %d:** %s`, m.questionIndex+1, m.candidate.TechnicalQuestions[m.questionIndex])
	}

	m.stage = StageCompletion
	return m.handleCompletion(ctx)
}

// handleCompletion flushes the answers, marks the stored record complete and
// emits the closing summary.
func (m *Machine) handleCompletion(ctx context.Context) string {
	if err := m.store.AppendResponses(ctx, m.candidateID, m.candidate.TechnicalResponses); err != nil {
		m.logger.Error("flush responses failed", slog.String("id", m.candidateID), slog.Any("err", err))
	}
	if err := m.store.MarkComplete(ctx, m.candidateID); err != nil {
		m.logger.Error("mark complete failed", slog.String("id", m.candidateID), slog.Any("err", err))
	}
	m.candidate.SessionCompleted = true
	if m.candidate.CompletionTime == "" {
		m.candidate.CompletionTime = models.Now()
	}

	name := m.candidate.Name
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(`Excellent! That completes our initial screening process. Thank you for taking the time to speak with me today, %s!

**Summary:**
- Name: %s
- Position Interest: %s
- Experience: %d years
- Tech Stack: %s
- Questions Answered: %d

**Next Steps:**
1. Our recruitment team will review your responses
2. You'll hear back from us within 2-3 business days
3. If there's a good fit, we'll schedule a more detailed interview

Thank you for your interest in %s! Have a great day!`,
		name, m.candidate.Name, m.candidate.DesiredPosition, m.candidate.ExperienceYears,
		strings.Join(m.candidate.TechStack, ", "), len(m.candidate.TechnicalResponses),
		m.cfg.CompanyName)
}

// handleCompleted answers turns arriving after the terminal stage; they have
// no state effect.
func (m *Machine) handleCompleted() string {
	return fmt.Sprintf("Your screening session is already complete. Thank you again for your interest in %s!", m.cfg.CompanyName)
}

// handleFallback covers an unroutable stage. It should never fire with the
// closed stage set; if it does, the model suggests a redirect and state is
// left untouched.
func (m *Machine) handleFallback(ctx context.Context, input string) string {
	prompt, err := redirectPrompt(input, m.stage)
	if err == nil {
		if out, gerr := m.gen.Generate(ctx, prompt); gerr == nil && strings.TrimSpace(out) != "" {
			return strings.TrimSpace(out)
		}
	}
	return "I'm here to help with your job application. Could you please provide the information I requested?"
}

// extractField asks the model to pull a single value out of free text. A
// capability failure reads the same as "not found": the caller re-prompts.
func (m *Machine) extractField(ctx context.Context, field, response string) (string, bool) {
	prompt, err := extractFieldPrompt(field, response)
	if err != nil {
		return "", false
	}

	out, err := m.gen.Generate(ctx, prompt)
	if err != nil {
		m.logger.Warn("field extraction failed", slog.String("field", field), slog.Any("err", err))
		return "", false
	}

	value := strings.Trim(strings.TrimSpace(out), `"`)
	if value == "" || strings.EqualFold(value, notFoundSentinel) {
		return "", false
	}
	return value, true
}

func (m *Machine) extractTechStack(ctx context.Context, text string) []string {
	prompt, err := extractTechStackPrompt(text)
	if err != nil {
		return nil
	}
	out, err := m.gen.Generate(ctx, prompt)
	if err != nil {
		m.logger.Warn("tech stack extraction failed", slog.Any("err", err))
		return nil
	}
	return ParseTechList(out)
}

func (m *Machine) generateQuestions(ctx context.Context) []string {
	difficulty := DifficultyFor(m.candidate.ExperienceYears)
	prompt, err := generateQuestionsPrompt(difficulty, m.candidate.ExperienceYears, m.candidate.TechStack)
	if err != nil {
		return FallbackQuestions(m.candidate.TechStack)
	}

	out, err := m.gen.Generate(ctx, prompt)
	if err != nil {
		m.logger.Warn("question generation failed, using fallback", slog.Any("err", err))
		return FallbackQuestions(m.candidate.TechStack)
	}

	questions := ParseNumberedList(out)
	if len(questions) == 0 {
		return FallbackQuestions(m.candidate.TechStack)
	}
	if len(questions) > 4 {
		questions = questions[:4]
	}
	return questions
}

var digitRun = regexp.MustCompile(`\d+`)

// firstNumber scans text for the first run of digits.
func firstNumber(text string) (int, bool) {
	match := digitRun.FindString(text)
	if match == "" {
		return 0, false
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return n, true
}
