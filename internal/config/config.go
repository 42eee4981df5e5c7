package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	AIProviderNone   = "none"
	AIProviderGemini = "gemini"
	AIProviderGrok   = "grok"

	minSecretKeyLength = 32
)

var (
	ErrSecretKeyMissing     = errors.New("SECRET_KEY is required")
	ErrSecretKeyPlaceholder = errors.New("SECRET_KEY uses an insecure placeholder value")
	ErrSecretKeyTooShort    = fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	ErrUnknownAIProvider    = errors.New("AI_PROVIDER must be one of gemini, grok, none")
)

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

type Config struct {
	Env             string
	Port            int
	Timezone        string
	DBPath          string
	SecretKey       string
	CookieSecure    bool
	DefaultLanguage string

	Log      LogConfig
	Cycle    CycleConfig
	Redis    RedisConfig
	Tokens   TokenConfig
	AI       AIConfig
	Vault    VaultConfig
	Reminder ReminderConfig
}

type LogConfig struct {
	Level  string
	Format string
}

// CycleConfig tunes the prediction engine.
type CycleConfig struct {
	EpisodeGapDays int
}

// RedisConfig points at the optional forecast cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

type TokenConfig struct {
	ShareTTL   time.Duration
	SessionTTL time.Duration
}

type AIConfig struct {
	Provider     string
	GeminiAPIKey string
	GeminiModel  string
	GrokAPIKey   string
	GrokModel    string
}

// VaultConfig enables the debounced JSON mirror of the journal. An empty
// FilePath disables it.
type VaultConfig struct {
	FilePath      string
	AutosaveDelay time.Duration
}

// ReminderConfig configures the Telegram reminder worker. It only runs when
// both the bot token and the chat id are set.
type ReminderConfig struct {
	BotToken   string
	ChatID     int64
	PeriodDays int
	Interval   time.Duration
}

func (cfg ReminderConfig) Enabled() bool {
	return cfg.BotToken != "" && cfg.ChatID != 0
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Env:             strings.ToLower(strings.TrimSpace(v.GetString("ENV"))),
		Port:            v.GetInt("PORT"),
		Timezone:        strings.TrimSpace(v.GetString("TZ")),
		DBPath:          strings.TrimSpace(v.GetString("DB_PATH")),
		CookieSecure:    v.GetBool("COOKIE_SECURE"),
		DefaultLanguage: strings.ToLower(strings.TrimSpace(v.GetString("DEFAULT_LANGUAGE"))),
	}

	secretKey, err := ResolveSecretKey(v.GetString("SECRET_KEY"))
	if err != nil {
		return nil, err
	}
	cfg.SecretKey = secretKey

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Cycle = CycleConfig{EpisodeGapDays: v.GetInt("CYCLE_EPISODE_GAP_DAYS")}

	cfg.Redis = RedisConfig{
		Addr:     strings.TrimSpace(v.GetString("REDIS_ADDR")),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
		CacheTTL: parseDuration(v.GetString("FORECAST_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Tokens = TokenConfig{
		ShareTTL:   parseDuration(v.GetString("SHARE_TOKEN_TTL"), 7*24*time.Hour),
		SessionTTL: parseDuration(v.GetString("SESSION_TTL"), 12*time.Hour),
	}

	provider := strings.ToLower(strings.TrimSpace(v.GetString("AI_PROVIDER")))
	switch provider {
	case "":
		provider = AIProviderNone
	case AIProviderNone, AIProviderGemini, AIProviderGrok:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAIProvider, provider)
	}
	cfg.AI = AIConfig{
		Provider:     provider,
		GeminiAPIKey: v.GetString("GEMINI_API_KEY"),
		GeminiModel:  v.GetString("GEMINI_MODEL"),
		GrokAPIKey:   v.GetString("GROK_API_KEY"),
		GrokModel:    v.GetString("GROK_MODEL"),
	}

	cfg.Vault = VaultConfig{
		FilePath:      strings.TrimSpace(v.GetString("VAULT_FILE_PATH")),
		AutosaveDelay: parseDuration(v.GetString("VAULT_AUTOSAVE_DELAY"), 1500*time.Millisecond),
	}

	cfg.Reminder = ReminderConfig{
		BotToken:   strings.TrimSpace(v.GetString("TELEGRAM_BOT_TOKEN")),
		ChatID:     v.GetInt64("TELEGRAM_CHAT_ID"),
		PeriodDays: v.GetInt("REMINDER_PERIOD_DAYS"),
		Interval:   parseDuration(v.GetString("REMINDER_INTERVAL"), time.Hour),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("TZ", "UTC")
	v.SetDefault("DB_PATH", "data/lunacycle.db")
	v.SetDefault("SECRET_KEY", "")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("DEFAULT_LANGUAGE", "en")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("CYCLE_EPISODE_GAP_DAYS", 2)

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("FORECAST_CACHE_TTL", "10m")

	v.SetDefault("SHARE_TOKEN_TTL", "168h")
	v.SetDefault("SESSION_TTL", "12h")

	v.SetDefault("AI_PROVIDER", AIProviderNone)
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("GROK_API_KEY", "")
	v.SetDefault("GROK_MODEL", "grok-2-latest")

	v.SetDefault("VAULT_FILE_PATH", "")
	v.SetDefault("VAULT_AUTOSAVE_DELAY", "1500ms")

	v.SetDefault("TELEGRAM_BOT_TOKEN", "")
	v.SetDefault("TELEGRAM_CHAT_ID", 0)
	v.SetDefault("REMINDER_PERIOD_DAYS", 2)
	v.SetDefault("REMINDER_INTERVAL", "1h")
}

// ResolveSecretKey rejects empty, placeholder and short secrets.
func ResolveSecretKey(raw string) (string, error) {
	secret := strings.TrimSpace(raw)
	if secret == "" {
		return "", ErrSecretKeyMissing
	}
	if _, insecure := insecureSecretKeys[strings.ToLower(secret)]; insecure {
		return "", ErrSecretKeyPlaceholder
	}
	if len(secret) < minSecretKeyLength {
		return "", ErrSecretKeyTooShort
	}
	return secret, nil
}

func (cfg *Config) IsProduction() bool {
	return cfg.Env == EnvProduction
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return fallback
	}

	return d
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
