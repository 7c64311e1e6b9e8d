package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/logger"
	"bloodlink-backend/internal/repository"
)

const requestSelect = `SELECT br.id, br.recipient_id, br.blood_group_needed, br.quantity, br.request_date, br.status,
	COALESCE(rp.name, ''), COALESCE(rp.hospital, ''), COALESCE(rp.user_id, 0)
	FROM blood_requests br
	LEFT JOIN recipient_profiles rp ON rp.id = br.recipient_id`

type bloodRequestRepository struct {
	db DBTX
}

func NewBloodRequestRepository(db DBTX) repository.BloodRequestRepository {
	return &bloodRequestRepository{db: db}
}

func scanRequest(row interface{ Scan(dest ...any) error }, r *domain.BloodRequest) error {
	return row.Scan(&r.ID, &r.RecipientID, &r.BloodGroupNeeded, &r.Quantity, &r.RequestDate, &r.Status,
		&r.RecipientName, &r.RecipientHospital, &r.RecipientUserID)
}

func (r *bloodRequestRepository) Create(ctx context.Context, req *domain.BloodRequest) error {
	query := `INSERT INTO blood_requests (recipient_id, blood_group_needed, quantity, request_date, status)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	return r.db.QueryRowContext(ctx, query, req.RecipientID, req.BloodGroupNeeded, req.Quantity, req.RequestDate, req.Status).Scan(&req.ID)
}

func (r *bloodRequestRepository) GetByID(ctx context.Context, id int32) (*domain.BloodRequest, error) {
	req := &domain.BloodRequest{}
	if err := scanRequest(r.db.QueryRowContext(ctx, requestSelect+` WHERE br.id = $1`, id), req); err != nil {
		return nil, notFound(err)
	}
	return req, nil
}

// GetForUpdate locks only the request row; the joined profile stays unlocked.
func (r *bloodRequestRepository) GetForUpdate(ctx context.Context, id int32) (*domain.BloodRequest, error) {
	logger.DatabaseCall("SELECT FOR UPDATE", "blood_requests", "id", id)
	req := &domain.BloodRequest{}
	err := scanRequest(r.db.QueryRowContext(ctx, requestSelect+` WHERE br.id = $1 FOR UPDATE OF br`, id), req)
	if err != nil {
		logger.DatabaseResult("SELECT FOR UPDATE", 0, err)
		return nil, notFound(err)
	}
	logger.DatabaseResult("SELECT FOR UPDATE", 1, nil, "status", req.Status)
	return req, nil
}

func (r *bloodRequestRepository) UpdateStatus(ctx context.Context, id int32, status domain.RequestStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE blood_requests SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *bloodRequestRepository) List(ctx context.Context, filter domain.RequestFilter) ([]domain.BloodRequest, int32, error) {
	logger.EnterMethod("bloodRequestRepository.List", "recipientID", filter.RecipientID, "status", filter.Status)

	var conds []string
	var args []any
	if filter.RecipientID != 0 {
		args = append(args, filter.RecipientID)
		conds = append(conds, fmt.Sprintf("br.recipient_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("br.status = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int32
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blood_requests br`+where, args...).Scan(&total); err != nil {
		logger.ExitMethodWithError("bloodRequestRepository.List", err)
		return nil, 0, err
	}

	limit, offset := pageOffset(filter.Page, filter.PageSize)
	args = append(args, limit, offset)
	query := requestSelect + where + fmt.Sprintf(" ORDER BY br.request_date DESC, br.id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	requests, err := r.query(ctx, query, args...)
	if err != nil {
		logger.ExitMethodWithError("bloodRequestRepository.List", err)
		return nil, 0, err
	}
	logger.ExitMethod("bloodRequestRepository.List", "count", len(requests), "total", total)
	return requests, total, nil
}

func (r *bloodRequestRepository) ListPendingBetween(ctx context.Context, from, to time.Time) ([]domain.BloodRequest, error) {
	query := requestSelect + ` WHERE br.status = $1 AND br.request_date >= $2 AND br.request_date < $3 ORDER BY br.request_date`
	return r.query(ctx, query, domain.RequestStatusPending, from, to)
}

func (r *bloodRequestRepository) Delete(ctx context.Context, id int32) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM blood_requests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *bloodRequestRepository) query(ctx context.Context, query string, args ...any) ([]domain.BloodRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []domain.BloodRequest
	for rows.Next() {
		var req domain.BloodRequest
		if err := scanRequest(rows, &req); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}
