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
	// Redis
	RedisHost     string
	RedisPort     string
	RedisUsername string
	RedisPassword string
	RedisUseTLS   bool

	// Supabase
	SupabaseURL        string
	SupabaseServiceKey string

	// S3 호환 스토리지 (R2/MinIO 포함)
	S3Endpoint       string
	S3Region         string
	S3AccessKey      string
	S3SecretKey      string
	S3Bucket         string
	S3ForcePathStyle bool

	// OpenAI API
	OpenAIAPIKey string
	OpenAIModel  string

	// Replicate API (FLUX Kontext Pro)
	ReplicateAPIToken string

	// Server
	Port string

	// Signed URL 유효 시간 (초)
	SignedURLExpirySeconds int
}

var globalConfig *Config

// LoadConfig - 환경변수 로드
func LoadConfig() (*Config, error) {
	// .env 파일 로드 (있으면)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env file not found, using environment variables")
	}

	// Redis UseTLS 파싱
	useTLS := true // 기본값
	if tlsStr := os.Getenv("REDIS_USE_TLS"); tlsStr != "" {
		if parsed, err := strconv.ParseBool(tlsStr); err == nil {
			useTLS = parsed
		}
	}

	// S3 Path Style 파싱 (로컬 MinIO / R2용)
	forcePathStyle := false
	if styleStr := os.Getenv("S3_FORCE_PATH_STYLE"); styleStr != "" {
		if parsed, err := strconv.ParseBool(styleStr); err == nil {
			forcePathStyle = parsed
		}
	}

	// Signed URL 유효 시간 파싱
	expiry := 300 // 기본값 (5분)
	if expiryStr := os.Getenv("SIGNED_URL_EXPIRY_SECONDS"); expiryStr != "" {
		if parsed, err := strconv.Atoi(expiryStr); err == nil {
			expiry = parsed
		}
	}

	globalConfig = &Config{
		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisUsername: getEnv("REDIS_USERNAME", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisUseTLS:   useTLS,

		// Supabase
		SupabaseURL:        getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_KEY", ""),

		// S3
		S3Endpoint:       getEnv("S3_ENDPOINT", ""),
		S3Region:         getEnv("S3_REGION", "us-east-1"),
		S3AccessKey:      getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:      getEnv("S3_SECRET_KEY", ""),
		S3Bucket:         getEnv("S3_BUCKET", "deezed-photos"),
		S3ForcePathStyle: forcePathStyle,

		// OpenAI
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o"),

		// Replicate
		ReplicateAPIToken: getEnv("REPLICATE_API_TOKEN", ""),

		// Server
		Port: getEnv("PORT", "8080"),

		// Signed URL
		SignedURLExpirySeconds: expiry,
	}

	// 필수 환경변수 검증
	if err := globalConfig.validate(); err != nil {
		return nil, err
	}

	log.Println("✅ Configuration loaded successfully")
	log.Printf("   Redis: %s:%s (TLS: %v)", globalConfig.RedisHost, globalConfig.RedisPort, globalConfig.RedisUseTLS)
	log.Printf("   Supabase: %s", globalConfig.SupabaseURL)
	log.Printf("   S3: %s (bucket: %s)", globalConfig.S3Endpoint, globalConfig.S3Bucket)
	log.Printf("   OpenAI: %s", globalConfig.OpenAIModel)

	return globalConfig, nil
}

// GetConfig - 로드된 설정 가져오기
func GetConfig() *Config {
	if globalConfig == nil {
		log.Fatal("❌ Config not loaded. Call LoadConfig() first.")
	}
	return globalConfig
}

// validate - 필수 환경변수 검증
func (c *Config) validate() error {
	if c.RedisHost == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabaseServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
	}
	if c.S3Endpoint == "" {
		return fmt.Errorf("S3_ENDPOINT is required")
	}
	if c.S3AccessKey == "" {
		return fmt.Errorf("S3_ACCESS_KEY is required")
	}
	if c.S3SecretKey == "" {
		return fmt.Errorf("S3_SECRET_KEY is required")
	}
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.ReplicateAPIToken == "" {
		// 토큰 없이도 부팅은 가능 (이미지 생성은 mock으로 대체)
		log.Println("⚠️  REPLICATE_API_TOKEN is not set - image generation will use mock output")
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

// GetRedisAddr - Redis 연결 문자열 생성
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
