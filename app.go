package main

import (
	"context"
	"fmt"

	"MediCheck/cache"
	"MediCheck/config"
	"MediCheck/db"
	"MediCheck/jobs"
	"MediCheck/notify"
	"MediCheck/services"

	"github.com/sirupsen/logrus"
)

// app holds the process-wide services, built once at startup and injected
// into the scheduler and HTTP handlers.
type app struct {
	cfg         *config.Config
	log         *logrus.Logger
	store       *db.MedicationStore
	medications *services.MedicationService
	reminders   *services.ReminderService
	scheduler   *jobs.Scheduler
	slots       []string
	closers     []func(context.Context) error
}

/*
* Parse the reminder schedule first so a bad table fails before any connection
* Connect Mongo and ensure the timing index
* Connect Redis when configured, otherwise run without dispatch claims
* Build the mail transport and, when Twilio is configured, the voice caller
* Wire services and the scheduler
 */
func newApp(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*app, error) {
	triggers, err := jobs.ParseSchedule(cfg.Reminder.Schedule)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, slots: jobs.Slots(triggers)}

	client, err := db.Connect(ctx, cfg.Mongo.URL, cfg.Mongo.Timeout)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client.Disconnect)
	log.Info("MongoDB connection success")

	a.store = db.NewMedicationStore(client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection))
	if err := a.store.EnsureIndexes(ctx); err != nil {
		a.close(ctx)
		return nil, err
	}

	var claims services.ReminderClaims = cache.NoClaims{}
	if cfg.Redis.URL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			a.close(ctx)
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
		claims = cache.NewReminderClaims(rdb, cfg.Redis.ClaimTTL)
		log.Info("Redis reminder claims enabled")
	} else {
		log.Warn("REDIS_URL not set, repeated firings on the same day are not deduplicated")
	}

	mailer, err := newMailer(cfg)
	if err != nil {
		a.close(ctx)
		return nil, err
	}
	var caller notify.VoiceCaller
	if cfg.Twilio.VoiceEnabled() {
		caller = notify.NewTwilioCaller(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber, cfg.Reminder.SendTimeout)
		log.Info("Voice reminders enabled")
	}

	dispatcher := services.NewDispatcher(mailer, caller, services.Sender{
		Name:  cfg.Email.FromName,
		Email: cfg.Email.User,
	}, cfg.Reminder.SendTimeout)

	a.medications = services.NewMedicationService(a.store, log, cfg.Recipient.PhoneRequired)
	a.reminders = services.NewReminderService(a.store, dispatcher, claims, log, services.ReminderOptions{
		Concurrency: cfg.Reminder.Concurrency,
		Location:    loc,
	})
	a.scheduler, err = jobs.NewScheduler(triggers, a.reminders, log, loc)
	if err != nil {
		a.close(ctx)
		return nil, err
	}
	return a, nil
}

func newMailer(cfg *config.Config) (notify.Mailer, error) {
	switch cfg.Email.Transport {
	case config.TransportSMTP:
		return notify.NewSMTPMailer(notify.SMTPConfig{
			Host:     cfg.Email.SMTPHost,
			Port:     cfg.Email.SMTPPort,
			Username: cfg.Email.User,
			Password: cfg.Email.Pass,
			Timeout:  cfg.Reminder.SendTimeout,
		}), nil
	case config.TransportSendgrid:
		return notify.NewSendgridMailer(cfg.Email.SendgridAPIKey), nil
	default:
		return nil, fmt.Errorf("unknown email transport %q", cfg.Email.Transport)
	}
}

func (a *app) close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.log.WithError(err).Warn("Error while closing resource")
		}
	}
	a.closers = nil
}
