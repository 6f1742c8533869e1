package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"MediCheck/util"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port      string          `mapstructure:"port"`
	Log       LogConfig       `mapstructure:"log"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Email     EmailConfig     `mapstructure:"email"`
	Twilio    TwilioConfig    `mapstructure:"twilio"`
	Reminder  ReminderConfig  `mapstructure:"reminder"`
	Recipient RecipientConfig `mapstructure:"recipient"`
	Cors      CorsConfig      `mapstructure:"cors"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Migrate   MigrateConfig   `mapstructure:"migrate"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MongoConfig struct {
	URL        string        `mapstructure:"url"`
	Database   string        `mapstructure:"database"`
	Collection string        `mapstructure:"collection"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type RedisConfig struct {
	URL      string        `mapstructure:"url"`
	ClaimTTL time.Duration `mapstructure:"claim_ttl"`
}

type EmailConfig struct {
	Transport      string `mapstructure:"transport"`
	User           string `mapstructure:"user"`
	Pass           string `mapstructure:"pass"`
	FromName       string `mapstructure:"from_name"`
	SMTPHost       string `mapstructure:"smtp_host"`
	SMTPPort       int    `mapstructure:"smtp_port"`
	SendgridAPIKey string `mapstructure:"sendgrid_api_key"`
}

type TwilioConfig struct {
	AccountSID string `mapstructure:"account_sid"`
	AuthToken  string `mapstructure:"auth_token"`
	FromNumber string `mapstructure:"from_number"`
}

// VoiceEnabled reports whether enough Twilio settings are present to place calls.
func (t TwilioConfig) VoiceEnabled() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.FromNumber != ""
}

type ReminderConfig struct {
	Schedule    string        `mapstructure:"schedule"`
	Timezone    string        `mapstructure:"timezone"`
	SendTimeout time.Duration `mapstructure:"send_timeout"`
	Concurrency int           `mapstructure:"concurrency"`
}

type RecipientConfig struct {
	PhoneRequired bool `mapstructure:"phone_required"`
}

type CorsConfig struct {
	AllowOrigins string `mapstructure:"allow_origins"`
}

// Origins splits the comma separated origin list.
func (c CorsConfig) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

type AdminConfig struct {
	Token string `mapstructure:"token"`
}

type MigrateConfig struct {
	OnStart bool `mapstructure:"on_start"`
}

const (
	TransportSMTP     = "smtp"
	TransportSendgrid = "sendgrid"
)

/*
* Load the .env file if present
* Apply defaults, then the optional medicheck.yaml, then the environment
* Validate the result
 */
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded:", err)
	}

	v := viper.New()
	v.SetConfigName("medicheck")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Every key needs a default so that AutomaticEnv values reach Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "7000")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("mongo.url", "")
	v.SetDefault("mongo.database", "medicheck")
	v.SetDefault("mongo.collection", util.MedicationCollection)
	v.SetDefault("mongo.timeout", 10*time.Second)

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.claim_ttl", 36*time.Hour)

	v.SetDefault("email.transport", TransportSMTP)
	v.SetDefault("email.user", "")
	v.SetDefault("email.pass", "")
	v.SetDefault("email.from_name", "MediCheck Reminder")
	v.SetDefault("email.smtp_host", "smtp.gmail.com")
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("email.sendgrid_api_key", "")

	v.SetDefault("twilio.account_sid", "")
	v.SetDefault("twilio.auth_token", "")
	v.SetDefault("twilio.from_number", "")

	v.SetDefault("reminder.schedule", "Morning=45 13 * * *;Night=0 21 * * *")
	v.SetDefault("reminder.timezone", "Local")
	v.SetDefault("reminder.send_timeout", 15*time.Second)
	v.SetDefault("reminder.concurrency", 1)

	v.SetDefault("recipient.phone_required", false)
	v.SetDefault("cors.allow_origins", "*")
	v.SetDefault("admin.token", "")
	v.SetDefault("migrate.on_start", false)
}

func (c *Config) Validate() error {
	if c.Mongo.URL == "" {
		return errors.New("MONGO_URL is required")
	}
	switch c.Email.Transport {
	case TransportSMTP:
		if c.Email.User == "" || c.Email.Pass == "" {
			return errors.New("EMAIL_USER and EMAIL_PASS are required for smtp transport")
		}
	case TransportSendgrid:
		if c.Email.SendgridAPIKey == "" || c.Email.User == "" {
			return errors.New("EMAIL_SENDGRID_API_KEY and EMAIL_USER are required for sendgrid transport")
		}
	default:
		return fmt.Errorf("unknown EMAIL_TRANSPORT %q", c.Email.Transport)
	}
	if c.Reminder.Concurrency < 1 {
		return errors.New("REMINDER_CONCURRENCY must be at least 1")
	}
	if c.Reminder.SendTimeout <= 0 {
		return errors.New("REMINDER_SEND_TIMEOUT must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves REMINDER_TIMEZONE for the cron triggers.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Reminder.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid REMINDER_TIMEZONE %q: %w", c.Reminder.Timezone, err)
	}
	return loc, nil
}
