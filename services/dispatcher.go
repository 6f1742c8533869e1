package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"MediCheck/models"
	"MediCheck/notify"
)

var reminderHTML = template.Must(template.New("reminder").Parse(
	`<h3>Your {{.Slot}} Medication Reminder</h3><ul>` +
		`{{range .Records}}<li>{{.Medicine}} ({{.Dosage}}){{if .Instructions}}<br><small>{{.Instructions}}</small>{{end}}</li>{{end}}` +
		`</ul>`))

type Sender struct {
	Name  string
	Email string
}

// ChannelResult is the outcome of one channel for one recipient.
// Attempted is false when the channel does not apply to the recipient.
type ChannelResult struct {
	Attempted bool
	Err       error
}

func (r ChannelResult) Failed() bool { return r.Attempted && r.Err != nil }

type DispatchOutcome struct {
	Email ChannelResult
	Voice ChannelResult
}

// AllFailed reports whether every attempted channel failed.
func (o DispatchOutcome) AllFailed() bool {
	attempted := 0
	failed := 0
	for _, r := range []ChannelResult{o.Email, o.Voice} {
		if r.Attempted {
			attempted++
			if r.Err != nil {
				failed++
			}
		}
	}
	return attempted > 0 && failed == attempted
}

// Dispatcher renders and sends the reminders for one recipient group.
// It keeps no state between calls and never retries.
type Dispatcher struct {
	mailer      notify.Mailer
	caller      notify.VoiceCaller
	sender      Sender
	sendTimeout time.Duration
}

// NewDispatcher builds a dispatcher. caller may be nil to disable voice.
func NewDispatcher(mailer notify.Mailer, caller notify.VoiceCaller, sender Sender, sendTimeout time.Duration) *Dispatcher {
	return &Dispatcher{mailer: mailer, caller: caller, sender: sender, sendTimeout: sendTimeout}
}

/*
* Send exactly one email for the group
* Place one voice call when a caller is configured and the recipient has a phone
* Each channel gets its own timeout and its error is returned, not retried
 */
func (d *Dispatcher) Dispatch(ctx context.Context, slot string, group models.RecipientGroup) DispatchOutcome {
	var out DispatchOutcome

	email, err := d.RenderEmail(slot, group)
	out.Email.Attempted = true
	if err != nil {
		out.Email.Err = err
	} else {
		out.Email.Err = d.withTimeout(ctx, func(ctx context.Context) error {
			return d.mailer.Send(ctx, email)
		})
	}

	if d.caller != nil && group.Recipient.Phone != "" {
		out.Voice.Attempted = true
		message := RenderVoice(slot, group.Records)
		out.Voice.Err = d.withTimeout(ctx, func(ctx context.Context) error {
			return d.caller.Call(ctx, group.Recipient.Phone, message)
		})
	}
	return out
}

func (d *Dispatcher) withTimeout(ctx context.Context, send func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()
	return send(ctx)
}

func (d *Dispatcher) RenderEmail(slot string, group models.RecipientGroup) (notify.Email, error) {
	var html bytes.Buffer
	err := reminderHTML.Execute(&html, struct {
		Slot    string
		Records []models.MedicationRecord
	}{Slot: slot, Records: group.Records})
	if err != nil {
		return notify.Email{}, fmt.Errorf("render reminder html: %w", err)
	}
	return notify.Email{
		FromName:  d.sender.Name,
		FromEmail: d.sender.Email,
		To:        group.Recipient.Email,
		Subject:   "⏰ Medication Reminder - " + slot,
		Text:      RenderText(group.Records),
		HTML:      html.String(),
	}, nil
}

func RenderText(records []models.MedicationRecord) string {
	var b strings.Builder
	b.WriteString("Please take the following medication(s):\n\n")
	for i, r := range records {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "• %s (%s)", r.Medicine, r.Dosage)
		if r.Instructions != "" {
			fmt.Fprintf(&b, "\n  Instructions: %s", r.Instructions)
		}
	}
	return b.String()
}

func RenderVoice(slot string, records []models.MedicationRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello. This is your %s medication reminder from MediCheck.", slot)
	for _, r := range records {
		fmt.Fprintf(&b, " Please take %s, %s.", r.Medicine, r.Dosage)
		if r.Instructions != "" {
			fmt.Fprintf(&b, " Instructions: %s.", strings.TrimRight(r.Instructions, ". "))
		}
	}
	b.WriteString(" Thank you.")
	return b.String()
}
