package postgres

import (
	"context"
	"time"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/repository"
)

type donorRequestLinkRepository struct {
	db DBTX
}

func NewDonorRequestLinkRepository(db DBTX) repository.DonorRequestLinkRepository {
	return &donorRequestLinkRepository{db: db}
}

// Create inserts the link; a repeated (donor, request) pair keeps the existing row.
func (r *donorRequestLinkRepository) Create(ctx context.Context, l *domain.DonorRequestLink) error {
	if l.ResponseStatus == "" {
		l.ResponseStatus = domain.ResponseStatusPending
	}
	query := `INSERT INTO donor_request_links (donor_id, request_id, linked_at, response_status)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (donor_id, request_id) DO UPDATE SET linked_at = donor_request_links.linked_at
	          RETURNING id, linked_at, response_status`
	return r.db.QueryRowContext(ctx, query, l.DonorID, l.RequestID, l.LinkedAt, l.ResponseStatus).
		Scan(&l.ID, &l.LinkedAt, &l.ResponseStatus)
}

func (r *donorRequestLinkRepository) Get(ctx context.Context, donorID, requestID int32) (*domain.DonorRequestLink, error) {
	l := &domain.DonorRequestLink{}
	query := `SELECT id, donor_id, request_id, linked_at, response_status, response_date
	          FROM donor_request_links WHERE donor_id = $1 AND request_id = $2`
	err := r.db.QueryRowContext(ctx, query, donorID, requestID).
		Scan(&l.ID, &l.DonorID, &l.RequestID, &l.LinkedAt, &l.ResponseStatus, &l.ResponseDate)
	if err != nil {
		return nil, notFound(err)
	}
	return l, nil
}

func (r *donorRequestLinkRepository) SaveResponse(ctx context.Context, donorID, requestID int32, status domain.ResponseStatus, at time.Time) (*domain.DonorRequestLink, error) {
	query := `INSERT INTO donor_request_links (donor_id, request_id, linked_at, response_status, response_date)
	          VALUES ($1, $2, $3, $4, $3)
	          ON CONFLICT (donor_id, request_id)
	          DO UPDATE SET response_status = EXCLUDED.response_status, response_date = EXCLUDED.response_date
	          RETURNING id, donor_id, request_id, linked_at, response_status, response_date`
	l := &domain.DonorRequestLink{}
	err := r.db.QueryRowContext(ctx, query, donorID, requestID, at, status).
		Scan(&l.ID, &l.DonorID, &l.RequestID, &l.LinkedAt, &l.ResponseStatus, &l.ResponseDate)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *donorRequestLinkRepository) ListByRequest(ctx context.Context, requestID int32) ([]domain.DonorRequestLink, error) {
	query := `SELECT id, donor_id, request_id, linked_at, response_status, response_date
	          FROM donor_request_links WHERE request_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []domain.DonorRequestLink
	for rows.Next() {
		var l domain.DonorRequestLink
		if err := rows.Scan(&l.ID, &l.DonorID, &l.RequestID, &l.LinkedAt, &l.ResponseStatus, &l.ResponseDate); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

func (r *donorRequestLinkRepository) ListByDonor(ctx context.Context, donorID int32) ([]domain.DonorRequestItem, error) {
	query := `SELECT l.id, l.donor_id, l.request_id, l.linked_at, l.response_status, l.response_date,
	                 br.id, br.recipient_id, br.blood_group_needed, br.quantity, br.request_date, br.status,
	                 COALESCE(rp.name, ''), COALESCE(rp.hospital, ''), COALESCE(rp.user_id, 0)
	          FROM donor_request_links l
	          JOIN blood_requests br ON br.id = l.request_id
	          LEFT JOIN recipient_profiles rp ON rp.id = br.recipient_id
	          WHERE l.donor_id = $1
	          ORDER BY l.linked_at DESC, l.id DESC`
	rows, err := r.db.QueryContext(ctx, query, donorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.DonorRequestItem
	for rows.Next() {
		var it domain.DonorRequestItem
		l, req := &it.Link, &it.Request
		if err := rows.Scan(&l.ID, &l.DonorID, &l.RequestID, &l.LinkedAt, &l.ResponseStatus, &l.ResponseDate,
			&req.ID, &req.RecipientID, &req.BloodGroupNeeded, &req.Quantity, &req.RequestDate, &req.Status,
			&req.RecipientName, &req.RecipientHospital, &req.RecipientUserID); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *donorRequestLinkRepository) DeleteByRequest(ctx context.Context, requestID int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM donor_request_links WHERE request_id = $1`, requestID)
	return err
}
