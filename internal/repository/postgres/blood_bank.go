package postgres

import (
	"context"
	"time"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/repository"
)

type bloodBankRepository struct {
	db DBTX
}

func NewBloodBankRepository(db DBTX) repository.BloodBankRepository {
	return &bloodBankRepository{db: db}
}

func (r *bloodBankRepository) Create(ctx context.Context, b *domain.BloodBank) error {
	query := `INSERT INTO blood_banks (name, location, contact, created_at) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query, b.Name, b.Location, b.Contact, time.Now()).Scan(&b.ID, &b.CreatedAt)
}

func (r *bloodBankRepository) GetByID(ctx context.Context, id int32) (*domain.BloodBank, error) {
	b := &domain.BloodBank{}
	query := `SELECT id, name, location, contact, created_at FROM blood_banks WHERE id = $1`
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.Name, &b.Location, &b.Contact, &b.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return b, nil
}

// GetFirst returns the bank with the lowest id.
func (r *bloodBankRepository) GetFirst(ctx context.Context) (*domain.BloodBank, error) {
	b := &domain.BloodBank{}
	query := `SELECT id, name, location, contact, created_at FROM blood_banks ORDER BY id LIMIT 1`
	if err := r.db.QueryRowContext(ctx, query).Scan(&b.ID, &b.Name, &b.Location, &b.Contact, &b.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return b, nil
}

func (r *bloodBankRepository) List(ctx context.Context) ([]domain.BloodBank, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, location, contact, created_at FROM blood_banks ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var banks []domain.BloodBank
	for rows.Next() {
		var b domain.BloodBank
		if err := rows.Scan(&b.ID, &b.Name, &b.Location, &b.Contact, &b.CreatedAt); err != nil {
			return nil, err
		}
		banks = append(banks, b)
	}
	return banks, rows.Err()
}
