package models

import "strconv"

// Recipient identifies a notification destination. Email alone, or email
// and phone jointly when a phone is present. The struct is comparable and
// two recipients are the same only when both fields match exactly.
type Recipient struct {
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Key encodes the identity for dispatch claims. The email is length
// prefixed so no email/phone pair can collide with another.
func (r Recipient) Key() string {
	return strconv.Itoa(len(r.Email)) + ":" + r.Email + ":" + r.Phone
}

type RecipientGroup struct {
	Recipient Recipient
	Records   []MedicationRecord
}
