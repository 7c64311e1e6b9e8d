package postgres

import (
	"context"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/repository"
)

type donationRepository struct {
	db DBTX
}

func NewDonationRepository(db DBTX) repository.DonationRepository {
	return &donationRepository{db: db}
}

func (r *donationRepository) Create(ctx context.Context, d *domain.DonationRecord) error {
	if d.Status == "" {
		d.Status = domain.DonationStatusCompleted
	}
	query := `INSERT INTO donation_records (donor_id, blood_bank_id, request_id, donation_date, quantity, status)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return r.db.QueryRowContext(ctx, query, d.DonorID, d.BloodBankID, d.RequestID, d.DonationDate, d.Quantity, d.Status).Scan(&d.ID)
}

func (r *donationRepository) ListByDonor(ctx context.Context, donorID int32) ([]domain.DonationRecord, error) {
	query := `SELECT id, donor_id, blood_bank_id, request_id, donation_date, quantity, status
	          FROM donation_records WHERE donor_id = $1 ORDER BY donation_date DESC`
	return r.list(ctx, query, donorID)
}

func (r *donationRepository) ListAll(ctx context.Context) ([]domain.DonationRecord, error) {
	query := `SELECT id, donor_id, blood_bank_id, request_id, donation_date, quantity, status
	          FROM donation_records ORDER BY donation_date DESC`
	return r.list(ctx, query)
}

func (r *donationRepository) list(ctx context.Context, query string, args ...any) ([]domain.DonationRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.DonationRecord
	for rows.Next() {
		var d domain.DonationRecord
		if err := rows.Scan(&d.ID, &d.DonorID, &d.BloodBankID, &d.RequestID, &d.DonationDate, &d.Quantity, &d.Status); err != nil {
			return nil, err
		}
		records = append(records, d)
	}
	return records, rows.Err()
}
