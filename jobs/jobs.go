package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"MediCheck/logger"
	"MediCheck/services"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Trigger fires the reminder sweep for Slot whenever Spec matches.
type Trigger struct {
	Slot string
	Spec string
}

type Runner interface {
	Run(ctx context.Context, slot string) (services.FiringReport, error)
}

/*
* Parse "Slot=cron spec" entries separated by ';'
* Every spec must be a valid five field cron expression
* Slot names must be unique
 */
func ParseSchedule(schedule string) ([]Trigger, error) {
	var triggers []Trigger
	seen := map[string]bool{}
	for _, entry := range strings.Split(schedule, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		slot, spec, ok := strings.Cut(entry, "=")
		slot, spec = strings.TrimSpace(slot), strings.TrimSpace(spec)
		if !ok || slot == "" || spec == "" {
			return nil, fmt.Errorf("invalid schedule entry %q, expected Slot=cron spec", entry)
		}
		if seen[slot] {
			return nil, fmt.Errorf("duplicate schedule entry for slot %q", slot)
		}
		if _, err := cron.ParseStandard(spec); err != nil {
			return nil, fmt.Errorf("invalid cron spec for %s: %w", slot, err)
		}
		seen[slot] = true
		triggers = append(triggers, Trigger{Slot: slot, Spec: spec})
	}
	if len(triggers) == 0 {
		return nil, fmt.Errorf("reminder schedule is empty")
	}
	return triggers, nil
}

// Slots returns the slot names in schedule order.
func Slots(triggers []Trigger) []string {
	slots := make([]string, 0, len(triggers))
	for _, t := range triggers {
		slots = append(slots, t.Slot)
	}
	return slots
}

// Scheduler fires the reminder pipeline at fixed wall-clock times. A firing
// missed while the process was down is not caught up.
type Scheduler struct {
	cron     *cron.Cron
	runner   Runner
	log      logrus.FieldLogger
	triggers []Trigger
}

func NewScheduler(triggers []Trigger, runner Runner, log logrus.FieldLogger, loc *time.Location) (*Scheduler, error) {
	cronLog := logger.CronLogger{Log: log}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		runner:   runner,
		log:      log,
		triggers: triggers,
	}
	for _, t := range triggers {
		slot := t.Slot
		if _, err := s.cron.AddFunc(t.Spec, func() { s.Fire(slot) }); err != nil {
			return nil, fmt.Errorf("schedule %s: %w", slot, err)
		}
	}
	return s, nil
}

func (s *Scheduler) Start() {
	for _, t := range s.triggers {
		s.log.WithFields(logrus.Fields{"slot": t.Slot, "spec": t.Spec}).Info("Reminder trigger scheduled")
	}
	s.cron.Start()
}

// Stop halts new firings and waits for running ones or ctx, whichever ends first.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Fire runs one firing for slot. Errors are logged, never returned, so a
// failed sweep cannot stop the scheduler.
func (s *Scheduler) Fire(slot string) {
	log := s.log.WithField("slot", slot)
	log.Info("Running reminder sweep")
	if _, err := s.runner.Run(context.Background(), slot); err != nil {
		log.WithError(err).Error("Reminder sweep failed")
	}
}
