package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/omkarsat/lumi-agent/internal/domain"
)

// RecordRepository implements domain.RecordRepository on the embedded database
type RecordRepository struct {
	db *sql.DB
}

// NewRecordRepository creates a new record repository
func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

func (r *RecordRepository) Create(ctx context.Context, record *domain.SupportRecord) error {
	query := `
		INSERT INTO support_records (complaint_id, name, phone_number, email, complaint_details, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.Name,
		record.Phone,
		record.Email,
		record.Details,
		string(record.Status),
		record.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}
	return nil
}

func (r *RecordRepository) Get(ctx context.Context, id string) (*domain.SupportRecord, error) {
	query := `
		SELECT complaint_id, name, phone_number, email, complaint_details, status, created_at
		FROM support_records
		WHERE complaint_id = ?
	`
	var (
		rec       domain.SupportRecord
		status    string
		createdAt string
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID,
		&rec.Name,
		&rec.Phone,
		&rec.Email,
		&rec.Details,
		&status,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	rec.Status = domain.RecordStatus(status)
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	rec.CreatedAt = ts

	return &rec, nil
}

func (r *RecordRepository) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM support_records WHERE complaint_id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check record: %w", err)
	}
	return true, nil
}

func (r *RecordRepository) UpdateStatus(ctx context.Context, id string, status domain.RecordStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE support_records SET status = ? WHERE complaint_id = ?`,
		string(status), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update record status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (r *RecordRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
