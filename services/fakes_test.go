package services

import (
	"context"
	"errors"
	"sync"

	"MediCheck/models"
	"MediCheck/notify"
)

type memoryRepo struct {
	mu        sync.Mutex
	records   []models.MedicationRecord
	insertErr error
	findErr   error
}

func (r *memoryRepo) InsertMany(_ context.Context, records []models.MedicationRecord) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return 0, r.insertErr
	}
	r.records = append(r.records, records...)
	return len(records), nil
}

func (r *memoryRepo) FindByTiming(_ context.Context, slot string) ([]models.MedicationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	out := []models.MedicationRecord{}
	for _, rec := range r.records {
		for _, t := range rec.Timing {
			if t == slot {
				out = append(out, rec)
				break
			}
		}
	}
	return out, nil
}

func (r *memoryRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

type fakeMailer struct {
	mu     sync.Mutex
	sent   []notify.Email
	failTo map[string]bool
}

func (m *fakeMailer) Send(_ context.Context, email notify.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failTo[email.To] {
		return errors.New("smtp: 550 mailbox unavailable")
	}
	m.sent = append(m.sent, email)
	return nil
}

func (m *fakeMailer) sentTo() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sent))
	for _, e := range m.sent {
		out = append(out, e.To)
	}
	return out
}

type voiceCall struct {
	To      string
	Message string
}

type fakeCaller struct {
	mu     sync.Mutex
	calls  []voiceCall
	failTo map[string]bool
}

func (c *fakeCaller) Call(_ context.Context, to, message string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failTo[to] {
		return errors.New("twilio: 21211 invalid phone number")
	}
	c.calls = append(c.calls, voiceCall{To: to, Message: message})
	return nil
}

type fakeClaims struct {
	mu       sync.Mutex
	held     map[string]bool
	released []string
	claimErr error
}

func newFakeClaims() *fakeClaims {
	return &fakeClaims{held: map[string]bool{}}
}

func (c *fakeClaims) Claim(_ context.Context, slot, day, recipientKey string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.claimErr != nil {
		return false, c.claimErr
	}
	key := slot + ":" + day + ":" + recipientKey
	if c.held[key] {
		return false, nil
	}
	c.held[key] = true
	return true, nil
}

func (c *fakeClaims) Release(_ context.Context, slot, day, recipientKey string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := slot + ":" + day + ":" + recipientKey
	delete(c.held, key)
	c.released = append(c.released, key)
	return nil
}

type mailerFunc func(ctx context.Context) error

func (f mailerFunc) Send(ctx context.Context, _ notify.Email) error { return f(ctx) }
