package interview

import (
	"strings"

	"github.com/talentscout/screener/pkg/genai"
)

// Sentinels the extraction prompts instruct the model to emit.
const (
	notFoundSentinel = "NOT_FOUND"
	noneSentinel     = "NONE"
)

const extractFieldTemplate = `Extract the {{.Field}} from this user response: "{{.Response}}"

Only return the extracted {{.Field}} value, nothing else.
If the {{.Field}} is not found or unclear, return "NOT_FOUND".

Examples:
- For name: return just "John Smith"
- For email: return just "john@email.com"
- For experience: return just the number like "3" or "5"
- For phone: return the full phone number`

const extractTechStackTemplate = `Extract the specific technologies, programming languages, frameworks, and tools mentioned in this text: "{{.Text}}"

Return only a comma-separated list of the exact technology names mentioned.
Focus on well-known technologies like:
- Programming languages (Python, JavaScript, Java, etc.)
- Frameworks (React, Django, Spring, etc.)
- Databases (MySQL, PostgreSQL, MongoDB, etc.)
- Cloud platforms (AWS, Azure, GCP, etc.)
- Tools (Docker, Git, Jenkins, etc.)

Example output: Python, Django, PostgreSQL, React, AWS

If no clear technologies are mentioned, return "NONE".`

const generateQuestionsTemplate = `Generate 3-4 technical interview questions for a {{.Difficulty}} level candidate with {{.Years}} years of experience.

The candidate is proficient in: {{.TechStack}}

Requirements:
- Questions should be specific to the technologies mentioned
- Appropriate for {{.Difficulty}} level ({{.DifficultyDescription}})
- Mix of conceptual and practical questions
- Clear and concise
- Focus on real-world application

Format: Return only the questions, numbered 1-4, without additional text.

Example format:
1. [Question about main technology]
2. [Question about framework/tool]
3. [Scenario-based question]
4. [Best practices question]`

const redirectTemplate = `The user said: "{{.Input}}"

This seems to be outside the scope of a hiring conversation.
Please provide a polite response that redirects them back to the hiring process.
Keep it brief and professional.

Current conversation stage: {{.Stage}}`

func extractFieldPrompt(field, response string) (string, error) {
	return genai.RenderTemplate(extractFieldTemplate, map[string]any{
		"Field":    field,
		"Response": response,
	})
}

func extractTechStackPrompt(text string) (string, error) {
	return genai.RenderTemplate(extractTechStackTemplate, map[string]any{"Text": text})
}

func generateQuestionsPrompt(difficulty string, years int, techStack []string) (string, error) {
	return genai.RenderTemplate(generateQuestionsTemplate, map[string]any{
		"Difficulty":            difficulty,
		"DifficultyDescription": difficultyDescriptions[difficulty],
		"Years":                 years,
		"TechStack":             strings.Join(techStack, ", "),
	})
}

func redirectPrompt(input string, stage Stage) (string, error) {
	return genai.RenderTemplate(redirectTemplate, map[string]any{
		"Input": input,
		"Stage": stage.String(),
	})
}
