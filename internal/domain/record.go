package domain

import (
	"context"
	"errors"
	"time"
)

// RecordStatus represents the lifecycle state of a support record
type RecordStatus string

const (
	StatusCreated    RecordStatus = "created"
	StatusInProgress RecordStatus = "in_progress"
	StatusResolved   RecordStatus = "resolved"
)

// ErrRecordNotFound signals a lookup miss. It is an expected outcome,
// not a fault: callers translate it into a plain not-found message.
var ErrRecordNotFound = errors.New("record not found")

// SupportRecord represents a persisted support case
type SupportRecord struct {
	ID        string       `json:"complaint_id" bson:"complaint_id"`
	Name      string       `json:"name" bson:"name"`
	Phone     string       `json:"phone_number" bson:"phone_number"`
	Email     string       `json:"email" bson:"email"`
	Details   string       `json:"complaint_details" bson:"complaint_details"`
	Status    RecordStatus `json:"status" bson:"status"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
}

// RecordRepository defines the interface for record storage
type RecordRepository interface {
	Create(ctx context.Context, record *SupportRecord) error
	Get(ctx context.Context, id string) (*SupportRecord, error)
	Exists(ctx context.Context, id string) (bool, error)
	UpdateStatus(ctx context.Context, id string, status RecordStatus) error
	Ping(ctx context.Context) error
}
