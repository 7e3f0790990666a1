package config

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("ACCESS_TOKEN_DURATION", "")
	t.Setenv("STORAGE_PROVIDER", "")

	cfg := LoadConfig()

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, time.Hour, cfg.AccessTokenDuration)
	assert.Equal(t, time.Hour, cfg.ResetTokenDuration)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxUploadSize)
	assert.Equal(t, "", cfg.StorageProvider)
	assert.Equal(t, "migrations", cfg.MigrationsPath)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ACCESS_TOKEN_DURATION", "30m")
	t.Setenv("MAX_UPLOAD_SIZE", "1024")
	t.Setenv("STORAGE_PROVIDER", "S3")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg := LoadConfig()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenDuration)
	assert.Equal(t, int64(1024), cfg.MaxUploadSize)
	assert.Equal(t, "s3", cfg.StorageProvider)
	assert.True(t, cfg.MinIO.UseSSL)
}

func TestParseHelpers_Fallbacks(t *testing.T) {
	assert.Equal(t, time.Hour, parseDuration("7d", time.Hour))
	assert.Equal(t, time.Hour, parseDuration("-5m", time.Hour))
	assert.Equal(t, int64(10*1024*1024), parseMaxUploadSize("abc"))
}

func TestValidate(t *testing.T) {
	cfg := &Config{StorageProvider: "minio"}
	require.Error(t, cfg.Validate())

	cfg.JWTSecretKey = "secret"
	require.NoError(t, cfg.Validate())

	cfg.StorageProvider = "cloudinary"
	assert.Error(t, cfg.Validate())
}

func TestDB_URL(t *testing.T) {
	db := DB{DbHOST: "h", DbPORT: "5432", DbUSER: "u", DbPASSWORD: "p", DbNAME: "n", DbSSLMODE: "disable"}

	assert.Equal(t, "postgres://u:p@h:5432/n?sslmode=disable", db.URL())
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=n sslmode=disable", db.DSN())
}

func TestDB_URL_EscapesCredentials(t *testing.T) {
	db := DB{
		DbHOST:     "db.internal",
		DbPORT:     "6543",
		DbUSER:     "report:er",
		DbPASSWORD: "p@ss/w#rd?x",
		DbNAME:     "ireporter",
		DbSSLMODE:  "require",
	}

	parsed, err := url.Parse(db.URL())
	require.NoError(t, err)

	password, ok := parsed.User.Password()
	require.True(t, ok)
	assert.Equal(t, "p@ss/w#rd?x", password)
	assert.Equal(t, "report:er", parsed.User.Username())
	assert.Equal(t, "db.internal", parsed.Hostname())
	assert.Equal(t, "6543", parsed.Port())
	assert.Equal(t, "/ireporter", parsed.Path)
	assert.Equal(t, "require", parsed.Query().Get("sslmode"))
}

func TestDB_DSN_QuotesValues(t *testing.T) {
	db := DB{DbHOST: "h", DbPORT: "5432", DbUSER: "u", DbPASSWORD: `it's a \secret`, DbNAME: "n", DbSSLMODE: "disable"}

	assert.Equal(t, `host=h port=5432 user=u password='it\'s a \\secret' dbname=n sslmode=disable`, db.DSN())
}
