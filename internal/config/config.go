package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration
type Config struct {
	Corpus     CorpusConfig     `yaml:"corpus"`
	Index      IndexConfig      `yaml:"index"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Safety     SafetyConfig     `yaml:"safety"`
	Generation GenerationConfig `yaml:"generation"`
	Session    SessionConfig    `yaml:"session"`
	Events     EventsConfig     `yaml:"events"`
	API        APIConfig        `yaml:"api"`
}

// CorpusConfig locates the grounding example sources. Every source is
// optional; a missing or malformed file contributes zero entries.
type CorpusConfig struct {
	DataDir      string `yaml:"data_dir"`
	IntentsFile  string `yaml:"intents_file"`
	Train1File   string `yaml:"train1_file"`
	Train2File   string `yaml:"train2_file"`
	CombinedFile string `yaml:"combined_file"`
	FeedbackFile string `yaml:"feedback_file"`
	MaxPerTag    int    `yaml:"max_per_tag"`
	MaxRows      int    `yaml:"max_rows"`
}

// IndexConfig controls the cached index artifact.
type IndexConfig struct {
	ArtifactPath string `yaml:"artifact_path"`
}

// RetrievalConfig controls example retrieval.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// SafetyConfig holds the crisis pattern set. Empty patterns fall back to
// the built-in defaults.
type SafetyConfig struct {
	Patterns      []SafetyPattern `yaml:"patterns"`
	CrisisMessage string          `yaml:"crisis_message"`
}

// SafetyPattern is one named crisis regular expression.
type SafetyPattern struct {
	ID      string `yaml:"id"`
	Pattern string `yaml:"pattern"`
}

// GenerationConfig configures the generation fallback chain.
type GenerationConfig struct {
	OpenAI OpenAIConfig `yaml:"openai"`
	Ollama OllamaConfig `yaml:"ollama"`
}

// OpenAIConfig configures the hosted backend.
type OpenAIConfig struct {
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`
}

// OllamaConfig configures the local backend.
type OllamaConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// SessionConfig configures session storage and the turn log.
type SessionConfig struct {
	Backend       string      `yaml:"backend"` // memory, redis
	Redis         RedisConfig `yaml:"redis"`
	LogDir        string      `yaml:"log_dir"`
	HistoryWindow int         `yaml:"history_window"`
}

// RedisConfig configures the redis session repository.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
}

// EventsConfig configures the Kafka event stream.
type EventsConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Brokers  []string `yaml:"brokers"`
	ClientID string   `yaml:"client_id"`
}

// APIConfig represents API gateway configuration
type APIConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	EnableCORS     bool          `yaml:"enable_cors"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	AllowedMethods []string      `yaml:"allowed_methods"`
	AllowedHeaders []string      `yaml:"allowed_headers"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Corpus: CorpusConfig{
			DataDir:      "data",
			IntentsFile:  "intents.json",
			Train1File:   "train1.csv",
			Train2File:   "train2.csv",
			CombinedFile: "combined_dataset.json",
			FeedbackFile: "user_memory.jsonl",
			MaxPerTag:    10,
			MaxRows:      0,
		},
		Index: IndexConfig{
			ArtifactPath: "data/index_store.gob",
		},
		Retrieval: RetrievalConfig{
			TopK: 4,
		},
		Generation: GenerationConfig{
			OpenAI: OpenAIConfig{
				Model:       "gpt-4o-mini",
				MaxTokens:   300,
				Temperature: 0.7,
			},
			Ollama: OllamaConfig{
				BaseURL: "http://localhost:11434",
				Model:   "llama3.2",
			},
		},
		Session: SessionConfig{
			Backend:       "memory",
			LogDir:        "sessions",
			HistoryWindow: 6,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "zenium",
				TTL:    24 * time.Hour,
			},
		},
		Events: EventsConfig{
			Enabled:  false,
			Brokers:  []string{"localhost:9092"},
			ClientID: "zenium-events",
		},
		API: APIConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			IdleTimeout:    120 * time.Second,
			EnableCORS:     true,
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"*"},
		},
	}
}

// Load loads configuration from file, falling back to defaults when the
// file is absent. The OPENAI_API_KEY environment variable overrides the
// configured key.
func Load(path string) *Config {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "config/config.yaml"
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Config file %s not readable (%v), using defaults", path, err)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		log.Fatalf("Failed to parse config file: %v", err)
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.Generation.OpenAI.APIKey = key
	}

	return cfg
}
