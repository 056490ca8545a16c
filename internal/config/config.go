package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultExitKeywords are the phrases that end an interview early. Chosen to
// be specific enough to avoid false positives on normal answers.
var DefaultExitKeywords = []string{
	"bye", "goodbye", "exit", "quit", "end conversation", "stop interview",
	"terminate", "close interview", "i want to exit", "i want to quit",
}

type Config struct {
	Addr              string        `yaml:"addr"`
	CompanyName       string        `yaml:"company_name"`
	JWTSecret         string        `yaml:"jwt_secret"`
	AdminPasswordHash string        `yaml:"admin_password_hash"`
	APITimeout        time.Duration `yaml:"timeout"`
	TokenDuration     time.Duration `yaml:"token_duration"`
	SessionIdle       time.Duration `yaml:"session_idle_timeout"`

	// StorageBackend selects the candidate store implementation: "json"
	// (flat file) or "sqlite".
	StorageBackend string `yaml:"storage_backend"`
	CandidatesFile string `yaml:"candidates_file"`
	DatabasePath   string `yaml:"database_path"`

	ExitKeywords []string    `yaml:"exit_keywords"`
	GenAI        GenAIConfig `yaml:"genai"`
}

// GenAIConfig holds settings for the text-generation client.
type GenAIConfig struct {
	// BaseURL is the HTTP endpoint of the Ollama instance, e.g. http://localhost:11434
	BaseURL string `yaml:"base_url"`
	// Model is the model name used for every generation call
	Model string `yaml:"model"`
	// Timeout is the per-request timeout
	Timeout time.Duration `yaml:"timeout"`
	// Retries is the number of retry attempts for transient failures
	Retries int `yaml:"retries"`
	// Backoff is the base backoff between retries
	Backoff time.Duration `yaml:"backoff"`
	// CircuitFailureThreshold opens the circuit after this many consecutive failures
	CircuitFailureThreshold int `yaml:"circuit_failure_threshold"`
	// CircuitReset is the duration after which the circuit attempts to half-open
	CircuitReset time.Duration `yaml:"circuit_reset"`
}

func LoadConfig(path string) (*Config, error) {
	// best-effort .env loading; a missing file is not an error
	_ = godotenv.Load()

	cfg := &Config{
		Addr:              getEnv("SCREENER_ADDR", ":8080"),
		CompanyName:       getEnv("SCREENER_COMPANY", "TalentScout"),
		JWTSecret:         getEnv("SCREENER_JWT_SECRET", "supersecretkey"),
		AdminPasswordHash: os.Getenv("SCREENER_ADMIN_PASSWORD_HASH"),
		APITimeout:        30 * time.Second,
		TokenDuration:     1 * time.Hour,
		SessionIdle:       30 * time.Minute,
		StorageBackend:    getEnv("SCREENER_STORAGE", "json"),
		CandidatesFile:    getEnv("SCREENER_CANDIDATES_FILE", "data/candidates.json"),
		DatabasePath:      getEnv("SCREENER_DATABASE_PATH", "screener.db"),
		ExitKeywords:      DefaultExitKeywords,
		GenAI: GenAIConfig{
			BaseURL:                 getEnv("SCREENER_GENAI_URL", "http://localhost:11434"),
			Model:                   getEnv("SCREENER_GENAI_MODEL", "llama3"),
			Timeout:                 30 * time.Second,
			Retries:                 3,
			Backoff:                 500 * time.Millisecond,
			CircuitFailureThreshold: 5,
			CircuitReset:            30 * time.Second,
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks the configuration for values that are unsafe or unusable
// outside development.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	switch c.StorageBackend {
	case "json", "sqlite":
	default:
		return fmt.Errorf("unknown storage backend %q (want json or sqlite)", c.StorageBackend)
	}
	if c.GenAI.Model == "" {
		return fmt.Errorf("genai model is required")
	}
	env := strings.ToLower(os.Getenv("SCREENER_ENV"))
	if c.JWTSecret == "supersecretkey" && env != "development" && env != "" {
		return fmt.Errorf("insecure jwt_secret is not allowed outside development")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
