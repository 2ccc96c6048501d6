package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr     string
	DemoMode bool
	LogLevel string
	// LogFormat is "json" (default) or "text".
	LogFormat string

	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string

	// AdminToken guards operator endpoints. Empty disables them.
	AdminToken string

	// CredentialSecret seeds the local credential issuer.
	CredentialSecret string

	DynamicConfigPath string
	BadgeCatalogPath  string

	Database  DatabaseConfig
	Redis     RedisConfig
	S3        S3Config
	Kafka     KafkaConfig
	Audit     AuditConfig
	RateLimit RateLimitConfig
}

// DatabaseConfig configures the Postgres connection pool.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig configures the shared Redis client. An empty URL disables Redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// ProfileCacheTTL bounds how long versioned profiles stay cached.
	ProfileCacheTTL time.Duration
}

// S3Config configures avatar blob storage.
type S3Config struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
	UploadTTL    time.Duration
}

// KafkaConfig configures the audit event sink. No brokers disables it.
type KafkaConfig struct {
	Brokers           []string
	AuditTopic        string
	TopicPartitions   int32
	ReplicationFactor int16
}

// AuditConfig controls sampling of operations-category audit events.
// Compliance and security events are always kept.
type AuditConfig struct {
	// OpsSampleRate is the fraction of operations events kept, in [0, 1].
	OpsSampleRate float64
	// ActionSampleRates overrides OpsSampleRate per event action.
	ActionSampleRates map[string]float64
}

// Limit is one rate limit bucket definition.
type Limit struct {
	Requests int
	Window   time.Duration
}

// RateLimitConfig holds per-action limits.
type RateLimitConfig struct {
	ProfileFetch   Limit
	ProfileSet     Limit
	UsernameLookup Limit
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:      getenv("PROFILES_ADDR", ":8080"),
		DemoMode:  os.Getenv("DEMO_MODE") == "true",
		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "json"),

		// Use a default for development - should be overridden in production
		JWTSigningKey: getenv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		JWTIssuer:     getenv("JWT_ISSUER", "accounts"),
		JWTAudience:   getenv("JWT_AUDIENCE", "profiles"),

		AdminToken:       os.Getenv("ADMIN_TOKEN"),
		CredentialSecret: getenv("CREDENTIAL_SECRET", "dev-credential-secret-change-in-production"),

		DynamicConfigPath: os.Getenv("DYNAMIC_CONFIG_PATH"),
		BadgeCatalogPath:  os.Getenv("BADGE_CATALOG_PATH"),

		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getenvInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getenvInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getenvDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:             os.Getenv("REDIS_URL"),
			PoolSize:        getenvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns:    getenvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:     getenvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:     getenvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout:    getenvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			ProfileCacheTTL: getenvDuration("PROFILE_CACHE_TTL", 10*time.Minute),
		},
		S3: S3Config{
			Bucket:       getenv("S3_BUCKET", "profiles"),
			Region:       getenv("S3_REGION", "us-east-1"),
			BaseEndpoint: os.Getenv("S3_BASE_ENDPOINT"),
			AccessKey:    os.Getenv("S3_ACCESS_KEY"),
			SecretKey:    os.Getenv("S3_SECRET_KEY"),
			UploadTTL:    getenvDuration("AVATAR_UPLOAD_TTL", 15*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers:           splitList(os.Getenv("KAFKA_BROKERS")),
			AuditTopic:        getenv("KAFKA_AUDIT_TOPIC", "profiles.audit"),
			TopicPartitions:   int32(getenvInt("KAFKA_TOPIC_PARTITIONS", 6)),
			ReplicationFactor: int16(getenvInt("KAFKA_REPLICATION_FACTOR", 1)),
		},
		Audit: AuditConfig{
			OpsSampleRate:     getenvFloat("AUDIT_OPS_SAMPLE_RATE", 1),
			ActionSampleRates: parseRates(os.Getenv("AUDIT_ACTION_SAMPLE_RATES")),
		},
		RateLimit: RateLimitConfig{
			ProfileFetch: Limit{
				Requests: getenvInt("RATE_LIMIT_PROFILE_FETCH", 4320),
				Window:   getenvDuration("RATE_LIMIT_PROFILE_FETCH_WINDOW", 24*time.Hour),
			},
			ProfileSet: Limit{
				Requests: getenvInt("RATE_LIMIT_PROFILE_SET", 100),
				Window:   getenvDuration("RATE_LIMIT_PROFILE_SET_WINDOW", time.Hour),
			},
			UsernameLookup: Limit{
				Requests: getenvInt("RATE_LIMIT_USERNAME_LOOKUP", 100),
				Window:   getenvDuration("RATE_LIMIT_USERNAME_LOOKUP_WINDOW", time.Hour),
			},
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getenvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

// parseRates reads "action=rate" pairs separated by commas. Malformed pairs
// are skipped.
func parseRates(s string) map[string]float64 {
	rates := make(map[string]float64)
	for _, pair := range splitList(s) {
		action, raw, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			continue
		}
		rates[strings.TrimSpace(action)] = rate
	}
	return rates
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
