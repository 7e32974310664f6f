package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	Port        string
	StaticDir   string
	LogLevel    string
	CorsOrigins []string
	MaxUploadMB int

	AwsAccessKey string
	AwsSecretKey string
	AwsRegion    string
	BucketName   string

	AIAPIKey       string
	GenModel       string
	GenTemperature float64
	EmbedModel     string
	EmbedDim       int
	EmbedBatchSize int
	LLMRequestsPM  int

	PromptsFile string

	ChunkSize                 int
	ChunkOverlap              int
	PropositionsEnabled       bool
	PropositionSliceSize      int
	PropositionChunkSize      int
	PropositionChunkOverlap   int
	PropositionFirstChunkOnly bool

	RetrievalK         int
	RetrievalFetchK    int
	RetrievalMMRLambda float64

	OtelEndpoint string
}

// LoadConfig loads the environment variables and return config
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		Port:        getEnv("PORT", "8080"),
		StaticDir:   getEnv("STATIC_DIR", "./web"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CorsOrigins: getEnvList("CORS_ORIGINS", []string{"http://localhost:5173", "http://localhost:8080"}),
		MaxUploadMB: getEnvInt("MAX_UPLOAD_MB", 50),

		AwsAccessKey: getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey: getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:    getEnv("AWS_REGION", "us-east-2"),
		BucketName:   getEnv("BUCKET_NAME", ""),

		AIAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GenModel:       getEnv("GEN_MODEL", "gemini-1.5-flash"),
		GenTemperature: getEnvFloat("GEN_TEMPERATURE", 0.4),
		EmbedModel:     getEnv("EMBED_MODEL", "text-embedding-004"),
		EmbedDim:       getEnvInt("EMBED_DIM", 768),
		EmbedBatchSize: getEnvInt("EMBED_BATCH_SIZE", 100),
		LLMRequestsPM:  getEnvInt("LLM_RPM", 60),

		PromptsFile: getEnv("PROMPTS_FILE", ""),

		ChunkSize:                 getEnvInt("CHUNK_SIZE", 1000),
		ChunkOverlap:              getEnvInt("CHUNK_OVERLAP", 500),
		PropositionsEnabled:       getEnvBool("PROPOSITIONS_ENABLED", false),
		PropositionSliceSize:      getEnvInt("PROPOSITION_SLICE_SIZE", 14000),
		PropositionChunkSize:      getEnvInt("PROPOSITION_CHUNK_SIZE", 2000),
		PropositionChunkOverlap:   getEnvInt("PROPOSITION_CHUNK_OVERLAP", 500),
		PropositionFirstChunkOnly: getEnvBool("PROPOSITION_FIRST_CHUNK_ONLY", false),

		RetrievalK:         getEnvInt("RETRIEVAL_K", 4),
		RetrievalFetchK:    getEnvInt("RETRIEVAL_FETCH_K", 20),
		RetrievalMMRLambda: getEnvFloat("RETRIEVAL_MMR_LAMBDA", 0.5),

		OtelEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	return cfg
}

// ArchiveEnabled reports whether uploads should be copied to object storage.
func (c *Config) ArchiveEnabled() bool {
	return c.AwsAccessKey != "" && c.AwsSecretKey != "" && c.BucketName != ""
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}

func getEnvFloat(key string, def float64) float64 {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("WARN: %s=%q not a float, using default %g", key, v, def)
		return def
	}
	return f
}

func getEnvBool(key string, def bool) bool {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("WARN: %s=%q not a bool, using default %t", key, v, def)
		return def
	}
	return b
}

func getEnvList(key string, def []string) []string {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
