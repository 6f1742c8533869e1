package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"MediCheck/metrics"
	"MediCheck/models"

	"github.com/sirupsen/logrus"
)

type MedicationRepository interface {
	InsertMany(ctx context.Context, records []models.MedicationRecord) (int, error)
	FindByTiming(ctx context.Context, slot string) ([]models.MedicationRecord, error)
}

type MedicationService struct {
	repo          MedicationRepository
	log           logrus.FieldLogger
	phoneRequired bool
	now           func() time.Time
}

func NewMedicationService(repo MedicationRepository, log logrus.FieldLogger, phoneRequired bool) *MedicationService {
	return &MedicationService{repo: repo, log: log, phoneRequired: phoneRequired, now: time.Now}
}

/*
* Validate the recipient and that medications is a non-empty list
* Drop entries without medicine, dosage or timing
* Stamp the survivors with the recipient and one createdAt
* Insert them in a single batch
 */
func (s *MedicationService) Save(ctx context.Context, req models.SaveMedicationsRequest) (int, error) {
	email := strings.TrimSpace(req.Email)
	phone := strings.TrimSpace(req.Phone)
	if email == "" || len(req.Medications) == 0 {
		return 0, ErrInvalidRequest
	}
	if s.phoneRequired && phone == "" {
		return 0, ErrInvalidRequest
	}

	createdAt := s.now().UTC()
	records := make([]models.MedicationRecord, 0, len(req.Medications))
	for _, med := range req.Medications {
		if !med.Complete() {
			continue
		}
		records = append(records, models.MedicationRecord{
			Email:        email,
			Phone:        phone,
			Medicine:     strings.TrimSpace(string(med.Medicine)),
			Dosage:       strings.TrimSpace(string(med.Dosage)),
			Timing:       med.Timing.Clean(),
			Duration:     strings.TrimSpace(string(med.Duration)),
			Total:        strings.TrimSpace(string(med.Total)),
			Instructions: strings.TrimSpace(string(med.Instructions)),
			CreatedAt:    createdAt,
		})
	}
	if len(records) == 0 {
		s.log.WithField("email", email).Warn("No valid medications in request")
		return 0, ErrNoValidMedications
	}

	saved, err := s.repo.InsertMany(ctx, records)
	if err != nil {
		s.log.WithError(err).WithField("email", email).Error("Failed to save medications")
		return 0, fmt.Errorf("%w: %w", ErrStore, err)
	}
	metrics.MedicationsSaved.Add(float64(saved))
	s.log.WithFields(logrus.Fields{
		"email":     email,
		"saved":     saved,
		"submitted": len(req.Medications),
	}).Info("Medications saved")
	return saved, nil
}
