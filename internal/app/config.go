package app

import (
	"strings"
	"time"

	"github.com/yungbote/materials-advisor/internal/observability"
	"github.com/yungbote/materials-advisor/internal/platform/envutil"
	"github.com/yungbote/materials-advisor/internal/platform/logger"
)

const (
	LLMProviderOpenAI = "openai"
	LLMProviderGemini = "gemini"

	OCRProviderTesseract  = "tesseract"
	OCRProviderVision     = "vision"
	OCRProviderDocumentAI = "documentai"
	OCRProviderNone       = "none"

	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"

	CatalogStoreFile   = "file"
	CatalogStoreSQLite = "sqlite"
	CatalogStoreMemory = "memory"
)

type Config struct {
	LogMode string

	Addr            string
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	CookieSecure    bool

	LLMProvider    string
	LLMBaseURL     string
	LLMAPIKey      string
	LLMModel       string
	LLMTimeout     time.Duration
	LLMTemperature float64
	LLMMaxTokens   int
	LLMReferer     string
	LLMTitle       string

	GeminiAPIKey string
	GeminiModel  string

	EmbeddingBaseURL   string
	EmbeddingAPIKey    string
	EmbeddingModel     string
	EmbeddingDimension int

	OCRProvider         string
	OCRTimeout          time.Duration
	TesseractPath       string
	TesseractLanguages  string
	DocumentAIProject   string
	DocumentAILocation  string
	DocumentAIProcessor string
	DocumentAIVersion   string
	GoogleCredentials   string

	UploadDir      string
	MaxUploadBytes int64
	UploadMaxAge   time.Duration
	SweepInterval  time.Duration

	SessionBackend string
	SessionTTL     time.Duration
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisKeyPrefix string

	CatalogStore string
	CatalogPath  string

	FontDir string

	Otel observability.OtelConfig
}

// LoadConfig reads the environment. Malformed values are reported on log and
// replaced by their defaults.
func LoadConfig(log *logger.Logger) Config {
	env := envutil.New(log)
	cfg := Config{
		LogMode: env.String("LOG_MODE", "development"),

		Addr:            env.String("ADDR", ":"+env.String("PORT", "5000")),
		ShutdownTimeout: env.Duration("SHUTDOWN_TIMEOUT", 15*time.Second),
		AllowedOrigins:  splitList(env.String("CORS_ALLOWED_ORIGINS", "")),
		CookieSecure:    env.Bool("COOKIE_SECURE", false),

		LLMProvider:    strings.ToLower(env.String("LLM_PROVIDER", LLMProviderOpenAI)),
		LLMBaseURL:     env.String("LLM_BASE_URL", "https://openrouter.ai/api"),
		LLMAPIKey:      env.FirstString("", "LLM_API_KEY", "OPENROUTER_API_KEY", "OPENAI_API_KEY"),
		LLMModel:       env.String("LLM_MODEL", "google/gemini-2.0-flash-exp:free"),
		LLMTimeout:     env.Duration("LLM_TIMEOUT", 60*time.Second),
		LLMTemperature: env.Float("LLM_TEMPERATURE", 0.3),
		LLMMaxTokens:   env.Int("LLM_MAX_TOKENS", 4000),
		LLMReferer:     env.String("LLM_HTTP_REFERER", "http://localhost:5000"),
		LLMTitle:       env.String("LLM_APP_TITLE", "Materials Advisor"),

		GeminiAPIKey: env.FirstString("", "GEMINI_API_KEY", "GOOGLE_API_KEY"),
		GeminiModel:  env.String("GEMINI_MODEL", "gemini-2.0-flash"),

		EmbeddingBaseURL:   env.String("EMBEDDING_BASE_URL", "https://api.openai.com"),
		EmbeddingAPIKey:    env.FirstString("", "EMBEDDING_API_KEY", "OPENAI_API_KEY"),
		EmbeddingModel:     env.String("EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingDimension: env.Int("EMBEDDING_DIMENSION", 1536),

		OCRProvider:         strings.ToLower(env.String("OCR_PROVIDER", OCRProviderTesseract)),
		OCRTimeout:          env.Duration("OCR_TIMEOUT", 60*time.Second),
		TesseractPath:       env.String("TESSERACT_PATH", "tesseract"),
		TesseractLanguages:  env.String("TESSERACT_LANGUAGES", "rus+eng"),
		DocumentAIProject:   env.FirstString("", "DOCUMENTAI_PROJECT_ID", "GOOGLE_CLOUD_PROJECT"),
		DocumentAILocation:  env.String("DOCUMENTAI_LOCATION", "us"),
		DocumentAIProcessor: env.String("DOCUMENTAI_PROCESSOR_ID", ""),
		DocumentAIVersion:   env.String("DOCUMENTAI_PROCESSOR_VERSION", ""),
		GoogleCredentials:   env.FirstString("", "GOOGLE_APPLICATION_CREDENTIALS_JSON", "GOOGLE_APPLICATION_CREDENTIALS"),

		UploadDir:      env.String("UPLOAD_DIR", "uploads"),
		MaxUploadBytes: int64(env.Int("MAX_UPLOAD_BYTES", 16<<20)),
		UploadMaxAge:   env.Duration("UPLOAD_MAX_AGE", time.Hour),
		SweepInterval:  env.Duration("UPLOAD_SWEEP_INTERVAL", 10*time.Minute),

		SessionBackend: strings.ToLower(env.String("SESSION_BACKEND", SessionBackendMemory)),
		SessionTTL:     env.Duration("SESSION_TTL", time.Hour),
		RedisAddr:      env.String("REDIS_ADDR", ""),
		RedisPassword:  env.String("REDIS_PASSWORD", ""),
		RedisDB:        env.Int("REDIS_DB", 0),
		RedisKeyPrefix: env.String("REDIS_KEY_PREFIX", "materials-advisor:analysis:"),

		CatalogStore: strings.ToLower(env.String("CATALOG_STORE", CatalogStoreFile)),
		CatalogPath:  env.String("CATALOG_PATH", "data/catalog.json"),

		FontDir: env.String("FONT_DIR", "fonts"),

		Otel: observability.OtelConfig{
			Enabled:     env.Bool("OTEL_ENABLED", false),
			ServiceName: env.String("OTEL_SERVICE_NAME", "materials-advisor"),
			Environment: env.String("APP_ENV", "development"),
			Version:     env.String("APP_VERSION", "dev"),
			SampleRatio: env.Float("OTEL_SAMPLE_RATIO", 1),
			Endpoint:    env.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:     observability.ParseHeaders(env.String("OTEL_EXPORTER_OTLP_HEADERS", "")),
			Insecure:    env.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
		},
	}
	return cfg
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
