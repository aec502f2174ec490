package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"production"`

	// Postgres. When empty the bot runs on the in-memory store.
	DBConnectionString string `envconfig:"DB_CONNECTION_STRING"`

	JWTSecret    string `envconfig:"JWT_SECRET" required:"true"`
	DashboardURL string `envconfig:"DASHBOARD_URL"`
	SupportURL   string `envconfig:"SUPPORT_URL" default:"https://discord.gg/PUSx3hSfJJ"`

	// Match data
	RiotAPIKey  string `envconfig:"RIOT_API_KEY" required:"true"`
	RiotBaseURL string `envconfig:"RIOT_BASE_URL"`

	// Content generation and speech
	OpenAIAPIKey      string `envconfig:"OPENAI_API_KEY" required:"true"`
	OpenAIBaseURL     string `envconfig:"OPENAI_BASE_URL"`
	OpenAIBasicModel  string `envconfig:"OPENAI_BASIC_MODEL" default:"gpt-3.5-turbo-1106"`
	OpenAIRichModel   string `envconfig:"OPENAI_RICH_MODEL" default:"gpt-4-1106-preview"`
	ElevenLabsAPIKey  string `envconfig:"ELEVEN_LABS_API_KEY"`
	ElevenLabsBaseURL string `envconfig:"ELEVEN_LABS_BASE_URL"`

	// Key used to decrypt user-supplied ElevenLabs keys. Either set directly or
	// read from Secret Manager by name.
	SecretCryptoKey       string `envconfig:"SECRET_CRYPTO_KEY"`
	SecretCryptoKeySecret string `envconfig:"SECRET_CRYPTO_KEY_SECRET"`

	// Google Cloud
	GCPProjectID       string `envconfig:"GCP_PROJECT_ID"`
	PubSubEmulatorHost string `envconfig:"PUBSUB_EMULATOR_HOST"`
	PubSubAuditTopic   string `envconfig:"PUBSUB_AUDIT_TOPIC" default:"generated-messages"`

	// Clip storage (S3 compatible). Disabled when S3_BUCKET is empty.
	S3URL         string        `envconfig:"S3_URL"`
	S3Bucket      string        `envconfig:"S3_BUCKET"`
	S3Region      string        `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessKey   string        `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey   string        `envconfig:"S3_SECRET_KEY"`
	ClipURLExpiry time.Duration `envconfig:"CLIP_URL_EXPIRY" default:"15m"`

	// Per-call timeouts
	MatchTimeout       time.Duration `envconfig:"MATCH_TIMEOUT" default:"15s"`
	GenerationTimeout  time.Duration `envconfig:"GENERATION_TIMEOUT" default:"30s"`
	SpeechTimeout      time.Duration `envconfig:"SPEECH_TIMEOUT" default:"30s"`
	PersistenceTimeout time.Duration `envconfig:"PERSISTENCE_TIMEOUT" default:"10s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	// envconfig only checks that required variables are set, not that they hold a value.
	required := []struct{ name, value string }{
		{"JWT_SECRET", cfg.JWTSecret},
		{"RIOT_API_KEY", cfg.RiotAPIKey},
		{"OPENAI_API_KEY", cfg.OpenAIAPIKey},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, fmt.Errorf("required key %s is empty", r.name)
		}
	}
	return &cfg, nil
}

// IsDevelopment reports whether ENV=development.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
