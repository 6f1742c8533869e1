package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"MediCheck/metrics"
	"MediCheck/models"
	"MediCheck/notify"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type TimingIndex interface {
	FindByTiming(ctx context.Context, slot string) ([]models.MedicationRecord, error)
}

type GroupDispatcher interface {
	Dispatch(ctx context.Context, slot string, group models.RecipientGroup) DispatchOutcome
}

// ReminderClaims guards against sending the same slot reminder twice on one day.
type ReminderClaims interface {
	Claim(ctx context.Context, slot, day, recipientKey string) (bool, error)
	Release(ctx context.Context, slot, day, recipientKey string) error
}

type FiringReport struct {
	Slot        string        `json:"slot"`
	Day         string        `json:"day"`
	Records     int           `json:"records"`
	Groups      int           `json:"groups"`
	EmailSent   int           `json:"emailSent"`
	EmailFailed int           `json:"emailFailed"`
	VoiceSent   int           `json:"voiceSent"`
	VoiceFailed int           `json:"voiceFailed"`
	Skipped     int           `json:"skipped"`
	StartedAt   time.Time     `json:"startedAt"`
	Duration    time.Duration `json:"duration"`
}

type ReminderOptions struct {
	Concurrency int
	Location    *time.Location
}

// ReminderService runs one firing: timing index, grouping, dispatch.
type ReminderService struct {
	index       TimingIndex
	dispatcher  GroupDispatcher
	claims      ReminderClaims
	log         logrus.FieldLogger
	concurrency int
	location    *time.Location
	now         func() time.Time
}

func NewReminderService(index TimingIndex, dispatcher GroupDispatcher, claims ReminderClaims, log logrus.FieldLogger, opts ReminderOptions) *ReminderService {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &ReminderService{
		index:       index,
		dispatcher:  dispatcher,
		claims:      claims,
		log:         log,
		concurrency: opts.Concurrency,
		location:    opts.Location,
		now:         time.Now,
	}
}

/*
* Look up every record for the slot; a failure aborts the firing
* Group by recipient
* Claim, dispatch and tally each group; one recipient's failure never stops the next
 */
func (s *ReminderService) Run(ctx context.Context, slot string) (FiringReport, error) {
	started := s.now()
	report := FiringReport{
		Slot:      slot,
		Day:       started.In(s.location).Format("2006-01-02"),
		StartedAt: started,
	}
	log := s.log.WithField("slot", slot)

	records, err := s.index.FindByTiming(ctx, slot)
	if err != nil {
		report.Duration = time.Since(started)
		metrics.RecordFiring(slot, "query_failed", 0, report.Duration.Seconds())
		log.WithError(err).Error("Reminder sweep aborted: timing index lookup failed")
		return report, fmt.Errorf("%w: %w", ErrQuery, err)
	}

	groups := GroupByRecipient(records)
	report.Records = len(records)
	report.Groups = len(groups)
	log.WithFields(logrus.Fields{"records": report.Records, "groups": report.Groups}).Info("Sending reminders")

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, group := range groups {
		g.Go(func() error {
			s.dispatchGroup(gctx, log, &mu, &report, group)
			return nil
		})
	}
	_ = g.Wait()

	report.Duration = time.Since(started)
	metrics.RecordFiring(slot, "completed", report.Groups, report.Duration.Seconds())
	log.WithFields(logrus.Fields{
		"emailSent":   report.EmailSent,
		"emailFailed": report.EmailFailed,
		"voiceSent":   report.VoiceSent,
		"voiceFailed": report.VoiceFailed,
		"skipped":     report.Skipped,
		"durationMs":  report.Duration.Milliseconds(),
	}).Info("Reminder sweep finished")
	return report, nil
}

func (s *ReminderService) dispatchGroup(ctx context.Context, log logrus.FieldLogger, mu *sync.Mutex, report *FiringReport, group models.RecipientGroup) {
	key := group.Recipient.Key()
	log = log.WithFields(logrus.Fields{
		"email":       group.Recipient.Email,
		"phone":       group.Recipient.Phone,
		"medications": len(group.Records),
	})

	claimed, err := s.claims.Claim(ctx, report.Slot, report.Day, key)
	if err != nil {
		// Fail open on guard errors.
		log.WithError(err).Warn("Reminder claim failed, sending anyway")
		claimed = true
	}
	if !claimed {
		log.Info("Reminder already sent for this slot today, skipping")
		mu.Lock()
		report.Skipped++
		mu.Unlock()
		return
	}

	out := s.dispatcher.Dispatch(ctx, report.Slot, group)

	mu.Lock()
	tally(&report.EmailSent, &report.EmailFailed, out.Email)
	tally(&report.VoiceSent, &report.VoiceFailed, out.Voice)
	mu.Unlock()

	logChannel(log, notify.ChannelEmail, out.Email)
	logChannel(log, notify.ChannelVoice, out.Voice)

	if out.AllFailed() {
		if err := s.claims.Release(ctx, report.Slot, report.Day, key); err != nil {
			log.WithError(err).Warn("Failed to release reminder claim")
		}
	}
}

func tally(sent, failed *int, r ChannelResult) {
	if !r.Attempted {
		return
	}
	if r.Err != nil {
		*failed++
		return
	}
	*sent++
}

func logChannel(log logrus.FieldLogger, channel string, r ChannelResult) {
	if !r.Attempted {
		return
	}
	entry := log.WithField("channel", channel)
	if r.Err != nil {
		metrics.RecordDispatch(channel, "failed")
		entry.WithError(r.Err).Error("Reminder delivery failed")
		return
	}
	metrics.RecordDispatch(channel, "sent")
	entry.Info("Reminder sent")
}
