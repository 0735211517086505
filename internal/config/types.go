package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName   string      `env:"DB_NAME" envDefault:"gardenal.db"`
	Port     string      `env:"PORT" envDefault:"8080"`
	Turso    TursoConfig `envPrefix:"TURSO_"`
	Auth     AuthConfig
	Slack    SlackConfig `envPrefix:"SLACK_"`
	Store    StoreConfig
	Log      LogConfig `envPrefix:"LOG_"`
	// ProjectID enables Pub/Sub event publishing when set.
	ProjectID string `env:"GCP_PROJECT"`
}

type TursoConfig struct {
	PrimaryURL string `env:"PRIMARY_URL"`
	AuthToken  string `env:"AUTH_TOKEN"`
}

type AuthConfig struct {
	JWTSecret          string        `env:"JWT_SECRET,required,notEmpty"`
	CookieName         string        `env:"COOKIE_NAME" envDefault:"gardenal_token"`
	CookieSecure       bool          `env:"COOKIE_SECURE" envDefault:"false"`
	SessionTTL         time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	LoginRatePerMinute int           `env:"LOGIN_RATE_PER_MINUTE" envDefault:"10"`
}

type SlackConfig struct {
	Token         string `env:"BOT_TOKEN"`
	ChannelID     string `env:"CHANNEL_ID"`
	SigningSecret string `env:"SIGNING_SECRET"`
}

type StoreConfig struct {
	MaxRetries uint64 `env:"STORE_MAX_RETRIES" envDefault:"3"`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
}
