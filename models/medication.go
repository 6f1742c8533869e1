package models

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MedicationRecord struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email        string             `json:"email" bson:"email"`
	Phone        string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Medicine     string             `json:"medicine" bson:"medicine"`
	Dosage       string             `json:"dosage" bson:"dosage"`
	Timing       []string           `json:"timing" bson:"timing"`
	Duration     string             `json:"duration" bson:"duration"`
	Total        string             `json:"total" bson:"total"`
	Instructions string             `json:"instructions" bson:"instructions"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}

func (m MedicationRecord) Recipient() Recipient {
	return Recipient{Email: m.Email, Phone: m.Phone}
}

// MedicationInput is one entry of a save request, or of a list extracted
// from generative text.
type MedicationInput struct {
	Medicine     Text        `json:"medicine"`
	Dosage       Text        `json:"dosage"`
	Timing       TimingSlots `json:"timing"`
	Duration     Text        `json:"duration,omitempty"`
	Total        Text        `json:"total,omitempty"`
	Instructions Text        `json:"instructions,omitempty"`
}

// Complete reports whether medicine, dosage and at least one timing slot are present.
func (m MedicationInput) Complete() bool {
	return strings.TrimSpace(string(m.Medicine)) != "" &&
		strings.TrimSpace(string(m.Dosage)) != "" &&
		len(m.Timing.Clean()) > 0
}

type SaveMedicationsRequest struct {
	Email       string         `json:"email"`
	Phone       string         `json:"phone"`
	Medications MedicationList `json:"medications"`
}

// TimingSlots decodes from either a JSON array of strings or a single string.
type TimingSlots []string

func (t *TimingSlots) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return errors.New("timing must be a string or a list of strings")
	}
	*t = TimingSlots{single}
	return nil
}

// Clean trims every slot and drops blanks and duplicates, keeping order.
func (t TimingSlots) Clean() []string {
	seen := make(map[string]struct{}, len(t))
	out := make([]string, 0, len(t))
	for _, s := range t {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
