package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DB struct {
	DbHOST     string
	DbPORT     string
	DbUSER     string
	DbPASSWORD string
	DbNAME     string
	DbSSLMODE  string
}

// DSN returns a key/value connection string for lib/pq.
func (d DB) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		dsnValue(d.DbHOST), dsnValue(d.DbPORT), dsnValue(d.DbUSER),
		dsnValue(d.DbPASSWORD), dsnValue(d.DbNAME), dsnValue(d.DbSSLMODE),
	)
}

// dsnValue single-quotes values that are empty or contain spaces, quotes or
// backslashes, escaping the latter two.
func dsnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, " '\\\t") {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// URL returns the same connection as a postgres:// URL, the form golang-migrate expects.
// Credentials and the database name are percent-encoded.
func (d DB) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.DbUSER, d.DbPASSWORD),
		Host:     net.JoinHostPort(d.DbHOST, d.DbPORT),
		Path:     "/" + d.DbNAME,
		RawQuery: url.Values{"sslmode": {d.DbSSLMODE}}.Encode(),
	}
	return u.String()
}

type MinIO struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
	Region     string
	PublicURL  string
}

type S3 struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string
	PublicURL       string
	UsePathStyle    bool
}

type SMTP struct {
	Enabled     bool
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

type Config struct {
	AppEnv              string
	LogLevel            string
	ServerPort          int
	DB                  DB
	MigrationsPath      string
	StorageProvider     string
	MinIO               MinIO
	S3                  S3
	SMTP                SMTP
	JWTSecretKey        string
	AccessTokenDuration time.Duration
	ResetTokenDuration  time.Duration
	AdminSignupKey      string
	MaxUploadSize       int64
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		return fallback
	}
	return duration
}

func parseMaxUploadSize(value string) int64 {
	size, err := strconv.ParseInt(value, 10, 64)
	if err != nil || size <= 0 {
		return 10 * 1024 * 1024
	}
	return size
}

func LoadDB() DB {
	return DB{
		DbHOST:     getEnv("DB_HOST", "localhost"),
		DbPORT:     getEnv("DB_PORT", "5432"),
		DbUSER:     getEnv("DB_USER", "postgres"),
		DbPASSWORD: getEnv("DB_PASSWORD", "password"),
		DbNAME:     getEnv("DB_NAME", "ireporter"),
		DbSSLMODE:  getEnv("DB_SSLMODE", "disable"),
	}
}

func LoadMinIO() MinIO {
	return MinIO{
		Endpoint:   getEnv("MINIO_ENDPOINT", "localhost:9000"),
		AccessKey:  getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		SecretKey:  getEnv("MINIO_SECRET_KEY", "minioadmin"),
		BucketName: getEnv("MINIO_BUCKET_NAME", "ireporter-media"),
		UseSSL:     getEnvBool("MINIO_USE_SSL", false),
		Region:     getEnv("MINIO_REGION", "us-east-1"),
		PublicURL:  getEnv("MINIO_PUBLIC_URL", ""),
	}
}

func LoadS3() S3 {
	return S3{
		Endpoint:        getEnv("S3_ENDPOINT", ""),
		AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		Bucket:          getEnv("S3_BUCKET", "ireporter-media"),
		Region:          getEnv("S3_REGION", "us-east-1"),
		PublicURL:       getEnv("S3_PUBLIC_URL", ""),
		UsePathStyle:    getEnvBool("S3_USE_PATH_STYLE", false),
	}
}

func LoadSMTP() SMTP {
	return SMTP{
		Enabled:     getEnvBool("SMTP_ENABLED", false),
		Host:        getEnv("SMTP_HOST", ""),
		Port:        getEnvAsInt("SMTP_PORT", 587),
		Username:    getEnv("SMTP_USERNAME", ""),
		Password:    getEnv("SMTP_PASSWORD", ""),
		FromAddress: getEnv("SMTP_FROM_ADDRESS", "no-reply@ireporter.local"),
		FromName:    getEnv("SMTP_FROM_NAME", "iReporter"),
	}
}

func LoadConfig() *Config {
	// a missing .env is fine, the process environment is used as is
	_ = godotenv.Load()

	return &Config{
		AppEnv:              getEnv("APP_ENV", "production"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		ServerPort:          getEnvAsInt("SERVER_PORT", 8080),
		DB:                  LoadDB(),
		MigrationsPath:      getEnv("MIGRATIONS_PATH", "migrations"),
		StorageProvider:     strings.ToLower(getEnv("STORAGE_PROVIDER", "minio")),
		MinIO:               LoadMinIO(),
		S3:                  LoadS3(),
		SMTP:                LoadSMTP(),
		JWTSecretKey:        getEnv("JWT_SECRET_KEY", ""),
		AccessTokenDuration: parseDuration(getEnv("ACCESS_TOKEN_DURATION", "1h"), time.Hour),
		ResetTokenDuration:  parseDuration(getEnv("RESET_TOKEN_DURATION", "1h"), time.Hour),
		AdminSignupKey:      getEnv("ADMIN_SIGNUP_KEY", ""),
		MaxUploadSize:       parseMaxUploadSize(getEnv("MAX_UPLOAD_SIZE", "10485760")),
	}
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecretKey == "" {
		return fmt.Errorf("JWT_SECRET_KEY is not set")
	}
	switch c.StorageProvider {
	case "minio", "s3":
	default:
		return fmt.Errorf("unknown STORAGE_PROVIDER %q", c.StorageProvider)
	}
	return nil
}
