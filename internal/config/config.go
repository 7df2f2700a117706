package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/spec-kit/ticket-agent/internal/domain"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App        AppConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	Logger     LoggerConfig
	Slack      SlackConfig
	Jira       JiraConfig
	Classifier ClassifierConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// SlackConfig holds chat platform credentials.
type SlackConfig struct {
	BotToken      string
	SigningSecret string
	APIBaseURL    string
}

// JiraConfig holds issue tracker connection values. The issue-type ids all
// default to the generic task type; map them per instance as needed.
type JiraConfig struct {
	BaseURL        string
	Email          string
	APIToken       string
	ProjectID      string
	TaskTypeID     string
	BugTypeID      string
	IncidentTypeID string
	QuestionTypeID string
}

// ClassifierConfig controls the tiered classification engine. A tier whose
// prerequisite value is empty is not built.
type ClassifierConfig struct {
	OllamaBaseURL string
	OllamaModel   string
	OpenAIAPIKey  string
	OpenAIModel   string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "ticket-agent"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 0),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Slack: SlackConfig{
			BotToken:      os.Getenv("SLACK_BOT_TOKEN"),
			SigningSecret: os.Getenv("SLACK_SIGNING_SECRET"),
			APIBaseURL:    getEnv("SLACK_API_BASE_URL", "https://slack.com/api"),
		},
		Jira: JiraConfig{
			BaseURL:        os.Getenv("JIRA_BASE_URL"),
			Email:          os.Getenv("JIRA_EMAIL"),
			APIToken:       os.Getenv("JIRA_API_TOKEN"),
			ProjectID:      getEnv("JIRA_PROJECT_ID", "10000"),
			TaskTypeID:     getEnv("JIRA_ISSUE_TYPE_TASK", "10001"),
			BugTypeID:      getEnv("JIRA_ISSUE_TYPE_BUG", "10001"),
			IncidentTypeID: getEnv("JIRA_ISSUE_TYPE_INCIDENT", "10001"),
			QuestionTypeID: getEnv("JIRA_ISSUE_TYPE_QUESTION", "10001"),
		},
		Classifier: ClassifierConfig{
			OllamaBaseURL: os.Getenv("OLLAMA_BASE_URL"),
			OllamaModel:   os.Getenv("OLLAMA_MODEL"),
			OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
			OpenAIModel:   os.Getenv("OPENAI_MODEL"),
		},
	}

	return cfg, nil
}

// IssueTypeID resolves a mapped issue-type name to its tracker id.
func (j JiraConfig) IssueTypeID(typeName string) string {
	switch typeName {
	case string(domain.LabelBug):
		return j.BugTypeID
	case string(domain.LabelIncident):
		return j.IncidentTypeID
	case string(domain.LabelQuestion):
		return j.QuestionTypeID
	default:
		return j.TaskTypeID
	}
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
