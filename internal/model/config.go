package model

import (
	"runtime"
	"time"
)

// Config is the full pipeline configuration
type Config struct {
	API          APIConfig          `yaml:"api" mapstructure:"api"`
	Corpus       CorpusConfig       `yaml:"corpus" mapstructure:"corpus"`
	Techniques   []string           `yaml:"techniques" mapstructure:"techniques"`
	RAG          RAGConfig          `yaml:"rag" mapstructure:"rag"`
	Resolution   ResolutionConfig   `yaml:"resolution" mapstructure:"resolution"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// APIConfig configures the OpenRouter-compatible chat completion endpoint
type APIConfig struct {
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url"`
	APIKey      string        `yaml:"api_key,omitempty" mapstructure:"api_key"`
	Model       string        `yaml:"model" mapstructure:"model"`
	MaxTokens   int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float32       `yaml:"temperature" mapstructure:"temperature"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxRetries  int           `yaml:"max_retries" mapstructure:"max_retries"`
}

// CorpusConfig points at the gold corpus on disk
type CorpusConfig struct {
	GoldDir string `yaml:"gold_dir" mapstructure:"gold_dir"`
	Split   string `yaml:"split" mapstructure:"split"` // dev, test or train
}

// RAGConfig configures retrieval-augmented prompting
type RAGConfig struct {
	SourceDir      string `yaml:"source_dir" mapstructure:"source_dir"`
	EmbeddingModel string `yaml:"embedding_model" mapstructure:"embedding_model"`
	TopK           int    `yaml:"top_k" mapstructure:"top_k"`
}

// ResolutionConfig tunes fuzzy entity resolution
type ResolutionConfig struct {
	// MinSimilarity is the lowest Ratcliff/Obershelp ratio a fuzzy
	// candidate may have and still resolve. Mentions whose best candidate
	// scores below it stay unresolved.
	MinSimilarity float64 `yaml:"min_similarity" mapstructure:"min_similarity"`
}

// ConcurrencyConfig sets worker counts for the parallel stages
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig throttles calls toward the model provider
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// CacheConfig configures the layered embedding/response cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// OutputConfig controls report writing
type OutputConfig struct {
	Dir         string `yaml:"dir" mapstructure:"dir"`
	PerDocument bool   `yaml:"per_document" mapstructure:"per_document"`
	Verbose     bool   `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:     "https://openrouter.ai/api/v1",
			Model:       "openai/gpt-4o-mini",
			MaxTokens:   4000,
			Temperature: 0.0,
			Timeout:     180 * time.Second,
			MaxRetries:  3,
		},
		Corpus: CorpusConfig{
			GoldDir: "gold_relations",
			Split:   "test",
		},
		Techniques: []string{"IO", "CoT", "RAG", "ReAct"},
		RAG: RAGConfig{
			SourceDir:      "rag_sources",
			EmbeddingModel: "text-embedding-3-small",
			TopK:           5,
		},
		Resolution: ResolutionConfig{
			MinSimilarity: 0.75,
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2.0,
			BurstSize:         4,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".relbench-cache",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Output: OutputConfig{
			Dir:         "results",
			PerDocument: true,
		},
	}
}
