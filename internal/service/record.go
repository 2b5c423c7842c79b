package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/omkarsat/lumi-agent/internal/domain"
	"github.com/omkarsat/lumi-agent/internal/extract"
	"github.com/rs/zerolog/log"
)

// ValidationError carries a user-facing message for a rejected record.
// Validation failures are expected outcomes, reported as plain language,
// never surfaced as faults.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var tenDigits = regexp.MustCompile(`^\d{10}$`)

const maxIDAttempts = 5

// RecordService owns record validation, identifier generation, and
// persistence through the configured repository backend.
type RecordService struct {
	repo     domain.RecordRepository
	validate *validator.Validate
	now      func() time.Time
}

// NewRecordService creates a new record service
func NewRecordService(repo domain.RecordRepository) *RecordService {
	return &RecordService{
		repo:     repo,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Create validates the extracted info and persists a new record with a
// fresh identifier. Returns *ValidationError for rejected input.
func (s *RecordService) Create(ctx context.Context, info extract.Info) (*domain.SupportRecord, error) {
	var missing []string
	if info.Name == "" {
		missing = append(missing, "name")
	}
	if info.Phone == "" {
		missing = append(missing, "phone_number")
	}
	if info.Email == "" {
		missing = append(missing, "email")
	}
	if info.Details == "" {
		missing = append(missing, "complaint_details")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{
			Message: fmt.Sprintf("Missing required information: %s. Please provide all details.", strings.Join(missing, ", ")),
		}
	}

	if err := s.validate.Var(info.Email, "required,email"); err != nil {
		return nil, &ValidationError{Message: "Invalid email format provided."}
	}

	if !tenDigits.MatchString(info.Phone) {
		return nil, &ValidationError{Message: "Invalid phone number. Must be 10 digits."}
	}

	id, err := s.generateID(ctx)
	if err != nil {
		return nil, err
	}

	record := &domain.SupportRecord{
		ID:        id,
		Name:      info.Name,
		Phone:     info.Phone,
		Email:     info.Email,
		Details:   info.Details,
		Status:    domain.StatusCreated,
		CreatedAt: s.now().UTC(),
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to persist record: %w", err)
	}

	log.Info().Str("record_id", record.ID).Msg("support record created")
	return record, nil
}

// Retrieve looks up a record by identifier. A miss yields
// domain.ErrRecordNotFound, which callers report as an ordinary result.
func (s *RecordService) Retrieve(ctx context.Context, id string) (*domain.SupportRecord, error) {
	return s.repo.Get(ctx, id)
}

// UpdateStatus advances a record along created -> in_progress -> resolved.
func (s *RecordService) UpdateStatus(ctx context.Context, id string, status domain.RecordStatus) error {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !validTransition(current.Status, status) {
		return &ValidationError{
			Message: fmt.Sprintf("Cannot move record from %s to %s.", current.Status, status),
		}
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func validTransition(from, to domain.RecordStatus) bool {
	switch from {
	case domain.StatusCreated:
		return to == domain.StatusInProgress || to == domain.StatusResolved
	case domain.StatusInProgress:
		return to == domain.StatusResolved
	default:
		return false
	}
}

// generateID produces an 8-character uppercase identifier, re-rolling on
// the rare collision with an existing record.
func (s *RecordService) generateID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		raw := strings.ReplaceAll(uuid.New().String(), "-", "")
		id := strings.ToUpper(raw[:8])

		exists, err := s.repo.Exists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("failed to check identifier: %w", err)
		}
		if !exists {
			return id, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique identifier after %d attempts", maxIDAttempts)
}
