package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("MONGO_URL", "mongodb://localhost:27017")
	t.Setenv("EMAIL_USER", "reminders@medicheck.test")
	t.Setenv("EMAIL_PASS", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, "medicheck", cfg.Mongo.Database)
	assert.Equal(t, "medications", cfg.Mongo.Collection)
	assert.Equal(t, 10*time.Second, cfg.Mongo.Timeout)
	assert.Equal(t, TransportSMTP, cfg.Email.Transport)
	assert.Equal(t, "smtp.gmail.com", cfg.Email.SMTPHost)
	assert.Equal(t, 587, cfg.Email.SMTPPort)
	assert.Equal(t, "MediCheck Reminder", cfg.Email.FromName)
	assert.Equal(t, "Morning=45 13 * * *;Night=0 21 * * *", cfg.Reminder.Schedule)
	assert.Equal(t, 15*time.Second, cfg.Reminder.SendTimeout)
	assert.Equal(t, 1, cfg.Reminder.Concurrency)
	assert.False(t, cfg.Recipient.PhoneRequired)
	assert.False(t, cfg.Twilio.VoiceEnabled())
	assert.Equal(t, []string{"*"}, cfg.Cors.Origins())
	assert.False(t, cfg.Migrate.OnStart)
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("REMINDER_CONCURRENCY", "4")
	t.Setenv("REMINDER_SEND_TIMEOUT", "3s")
	t.Setenv("RECIPIENT_PHONE_REQUIRED", "true")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "token")
	t.Setenv("TWILIO_FROM_NUMBER", "+15550001111")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://localhost:5173, https://medicheck.app")
	t.Setenv("MIGRATE_ON_START", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 4, cfg.Reminder.Concurrency)
	assert.Equal(t, 3*time.Second, cfg.Reminder.SendTimeout)
	assert.True(t, cfg.Recipient.PhoneRequired)
	assert.True(t, cfg.Twilio.VoiceEnabled())
	assert.Equal(t, []string{"http://localhost:5173", "https://medicheck.app"}, cfg.Cors.Origins())
	assert.True(t, cfg.Migrate.OnStart)
}

func TestLoad_MissingMongoURL(t *testing.T) {
	t.Setenv("MONGO_URL", "")
	t.Setenv("EMAIL_USER", "reminders@medicheck.test")
	t.Setenv("EMAIL_PASS", "secret")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGO_URL")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Mongo:    MongoConfig{URL: "mongodb://localhost"},
			Email:    EmailConfig{Transport: TransportSMTP, User: "u@x.com", Pass: "p"},
			Reminder: ReminderConfig{Timezone: "UTC", SendTimeout: time.Second, Concurrency: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid smtp", mutate: func(c *Config) {}},
		{name: "smtp without password", mutate: func(c *Config) { c.Email.Pass = "" }, wantErr: "EMAIL_PASS"},
		{name: "sendgrid without key", mutate: func(c *Config) { c.Email.Transport = TransportSendgrid }, wantErr: "EMAIL_SENDGRID_API_KEY"},
		{name: "sendgrid with key", mutate: func(c *Config) {
			c.Email.Transport = TransportSendgrid
			c.Email.SendgridAPIKey = "SG.key"
		}},
		{name: "unknown transport", mutate: func(c *Config) { c.Email.Transport = "pigeon" }, wantErr: "EMAIL_TRANSPORT"},
		{name: "zero concurrency", mutate: func(c *Config) { c.Reminder.Concurrency = 0 }, wantErr: "REMINDER_CONCURRENCY"},
		{name: "bad timezone", mutate: func(c *Config) { c.Reminder.Timezone = "Mars/Olympus" }, wantErr: "REMINDER_TIMEZONE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
