package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config 구조체 - 모든 환경변수를 담음
type Config struct {
	// Supabase
	SupabaseURL            string
	SupabaseAnonKey        string
	SupabaseServiceKey     string
	SupabaseStorageBaseURL string

	// Gemini API
	GeminiAPIKey        string
	GeminiImageModel    string
	GeminiAnalysisModel string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisUsername string
	RedisPassword string
	RedisUseTLS   bool

	// Server
	Port string

	// Storage buckets
	TempBucket      string
	HQBucket        string
	OptimizedBucket string

	// Generation
	SignedURLTTLSeconds int
	WebPQuality         float32
	LowCreditThreshold  int
}

var globalConfig *Config

// LoadConfig - 환경변수 로드
func LoadConfig() (*Config, error) {
	// .env 파일 로드 (있으면)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env file not found, using environment variables")
	}

	// Redis UseTLS 파싱
	useTLS := false
	if tlsStr := os.Getenv("REDIS_USE_TLS"); tlsStr != "" {
		if parsed, err := strconv.ParseBool(tlsStr); err == nil {
			useTLS = parsed
		}
	}

	globalConfig = &Config{
		// Supabase
		SupabaseURL:            getEnv("SUPABASE_URL", ""),
		SupabaseAnonKey:        getEnv("SUPABASE_ANON_KEY", ""),
		SupabaseServiceKey:     getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseStorageBaseURL: getEnv("SUPABASE_STORAGE_BASE_URL", ""),

		// Gemini API
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		GeminiImageModel:    getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),
		GeminiAnalysisModel: getEnv("GEMINI_ANALYSIS_MODEL", "gemini-2.5-flash"),

		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisUsername: getEnv("REDIS_USERNAME", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisUseTLS:   useTLS,

		// Server
		Port: getEnv("PORT", "8080"),

		// Storage buckets
		TempBucket:      getEnv("TEMP_BUCKET", "image-processing-uploads"),
		HQBucket:        getEnv("HQ_BUCKET", "generations-hq"),
		OptimizedBucket: getEnv("OPTIMIZED_BUCKET", "generations"),

		// Generation
		SignedURLTTLSeconds: getEnvInt("SIGNED_URL_TTL_SECONDS", 60),
		WebPQuality:         float32(getEnvInt("WEBP_QUALITY", 75)),
		LowCreditThreshold:  getEnvInt("LOW_CREDIT_THRESHOLD", 5),
	}

	// SupabaseStorageBaseURL 기본값은 SupabaseURL에서 유도
	if globalConfig.SupabaseStorageBaseURL == "" && globalConfig.SupabaseURL != "" {
		globalConfig.SupabaseStorageBaseURL = globalConfig.SupabaseURL + "/storage/v1"
	}

	// 필수 환경변수 검증
	if err := globalConfig.validate(); err != nil {
		return nil, err
	}

	log.Println("✅ Configuration loaded successfully")
	log.Printf("   Supabase: %s", globalConfig.SupabaseURL)
	log.Printf("   Gemini: %s / %s", globalConfig.GeminiImageModel, globalConfig.GeminiAnalysisModel)
	log.Printf("   Redis: %s:%s (TLS: %v)", globalConfig.RedisHost, globalConfig.RedisPort, globalConfig.RedisUseTLS)
	log.Printf("   Buckets: temp=%s hq=%s optimized=%s",
		globalConfig.TempBucket, globalConfig.HQBucket, globalConfig.OptimizedBucket)

	return globalConfig, nil
}

// GetConfig - 로드된 설정 가져오기
func GetConfig() *Config {
	if globalConfig == nil {
		log.Fatal("❌ Config not loaded. Call LoadConfig() first.")
	}
	return globalConfig
}

// SetConfigForTest - 테스트에서 설정 주입
func SetConfigForTest(cfg *Config) {
	globalConfig = cfg
}

// validate - 필수 환경변수 검증
func (c *Config) validate() error {
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabaseServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	return nil
}

// getEnv - 환경변수 가져오기 (기본값 지원)
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt - 정수 환경변수 가져오기 (기본값 지원)
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetRedisAddr - Redis 연결 문자열 생성
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
