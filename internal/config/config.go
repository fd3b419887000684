package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	StorageLocal = "local"
	StorageS3    = "s3"
	StorageMinio = "minio"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
	SlowThreshold   time.Duration
}

// ConnString returns DSN when set, otherwise a postgres URL built from the
// discrete connection fields.
func (p PostgresConfig) ConnString() string {
	if p.DSN != "" {
		return p.DSN
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(p.User, p.Password),
		Host:   fmt.Sprintf("%s:%d", p.Host, p.Port),
		Path:   p.Name,
	}
	q := u.Query()
	q.Set("sslmode", p.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

type StorageConfig struct {
	Type      string
	Bucket    string
	LocalDir  string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

type UploadConfig struct {
	MaxFileSize  int64
	AllowedMimes []string
}

type SecurityConfig struct {
	JWTSecret           string
	JWTTTL              time.Duration
	ResetTokenTTL       time.Duration
	ResetTokenRetention time.Duration
	ResetTokenSweepCron string
}

type MailConfig struct {
	Transport string
	Subject   string
	ResetLink string
}

type AppConfig struct {
	Environment      string
	LogLevel         string
	AppURL           string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Storage          StorageConfig
	Upload           UploadConfig
	Security         SecurityConfig
	Mail             MailConfig
	AllowCORSOrigins []string
}

// envBindings maps config keys to the environment variable names the
// deployment uses. Keys are bound explicitly so Unmarshal sees them.
var envBindings = map[string]string{
	"environment":                  "APP_ENV",
	"loglevel":                     "LOG_LEVEL",
	"appurl":                       "APP_URL",
	"http.host":                    "HOST",
	"http.port":                    "PORT",
	"postgres.dsn":                 "DATABASE_URL",
	"postgres.host":                "DB_HOST",
	"postgres.port":                "DB_PORT",
	"postgres.user":                "DB_USER",
	"postgres.password":            "DB_PASSWORD",
	"postgres.name":                "DB_NAME",
	"postgres.sslmode":             "DB_SSLMODE",
	"storage.type":                 "STORAGE_TYPE",
	"storage.bucket":               "STORAGE_BUCKET",
	"storage.localdir":             "STORAGE_LOCAL_DIR",
	"storage.region":               "AWS_REGION",
	"storage.endpoint":             "STORAGE_ENDPOINT",
	"storage.accesskey":            "STORAGE_ACCESS_KEY",
	"storage.secretkey":            "STORAGE_SECRET_KEY",
	"storage.usessl":               "STORAGE_USE_SSL",
	"upload.maxfilesize":           "UPLOAD_MAX_FILE_SIZE",
	"security.jwtsecret":           "JWT_SECRET",
	"security.jwtttl":              "JWT_EXPIRES_IN",
	"security.resettokenttl":       "RESET_TOKEN_TTL",
	"security.resettokenretention": "RESET_TOKEN_RETENTION",
	"security.resettokensweepcron": "RESET_TOKEN_SWEEP_CRON",
	"mail.transport":               "MAIL_TRANSPORT",
	"mail.subject":                 "MAIL_SUBJECT",
	"mail.resetlink":               "MAIL_URL",
	"allowcorsorigins":             "CORS_ORIGINS",
}

// Load reads .env (if present), an optional config.yaml and the process
// environment, in increasing order of precedence.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*AppConfig, error) {
	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports configuration that would leave the server unable to
// sign tokens or store uploads.
func (c *AppConfig) Validate() error {
	if c.Security.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	switch c.Storage.Type {
	case StorageLocal:
		if c.Storage.LocalDir == "" {
			return errors.New("config: STORAGE_LOCAL_DIR is required for local storage")
		}
	case StorageS3, StorageMinio:
		if c.Storage.Bucket == "" {
			return fmt.Errorf("config: STORAGE_BUCKET is required for %s storage", c.Storage.Type)
		}
	default:
		return fmt.Errorf("config: unknown STORAGE_TYPE %q", c.Storage.Type)
	}
	if c.Upload.MaxFileSize <= 0 {
		return errors.New("config: UPLOAD_MAX_FILE_SIZE must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("loglevel", "")
	v.SetDefault("appurl", "http://localhost:3333")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 3333)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.name", "happy")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.maxopen", 25)
	v.SetDefault("postgres.maxidle", 5)
	v.SetDefault("postgres.connmaxlifetime", "30m")
	v.SetDefault("postgres.slowthreshold", "200ms")

	v.SetDefault("storage.type", StorageLocal)
	v.SetDefault("storage.bucket", "happyupload")
	v.SetDefault("storage.localdir", "tmp/uploads")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.accesskey", "")
	v.SetDefault("storage.secretkey", "")
	v.SetDefault("storage.usessl", false)

	v.SetDefault("upload.maxfilesize", 5*1024*1024)
	v.SetDefault("upload.allowedmimes", []string{"image/jpeg", "image/pjpeg", "image/png", "image/gif"})

	v.SetDefault("security.jwtsecret", "")
	v.SetDefault("security.jwtttl", "24h")
	v.SetDefault("security.resettokenttl", "1h")
	v.SetDefault("security.resettokenretention", "24h")
	v.SetDefault("security.resettokensweepcron", "0 0 * * * *") // hourly

	v.SetDefault("mail.transport", "")
	v.SetDefault("mail.subject", "RESET")
	v.SetDefault("mail.resetlink", "")

	v.SetDefault("allowcorsorigins", []string{})
}
