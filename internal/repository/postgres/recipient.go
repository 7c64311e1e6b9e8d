package postgres

import (
	"context"
	"time"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/repository"
)

type recipientRepository struct {
	db DBTX
}

func NewRecipientRepository(db DBTX) repository.RecipientRepository {
	return &recipientRepository{db: db}
}

func (r *recipientRepository) Create(ctx context.Context, p *domain.RecipientProfile) error {
	query := `INSERT INTO recipient_profiles (user_id, name, blood_group, hospital, created_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, p.UserID, p.Name, p.BloodGroup, p.Hospital, time.Now()).Scan(&p.ID, &p.CreatedAt)
	if isUniqueViolation(err) {
		return domain.InvalidOperation("user %d already has a recipient profile", p.UserID)
	}
	return err
}

func (r *recipientRepository) GetByID(ctx context.Context, id int32) (*domain.RecipientProfile, error) {
	return r.getOne(ctx, `SELECT id, user_id, name, blood_group, hospital, created_at FROM recipient_profiles WHERE id = $1`, id)
}

func (r *recipientRepository) GetByUserID(ctx context.Context, userID int32) (*domain.RecipientProfile, error) {
	return r.getOne(ctx, `SELECT id, user_id, name, blood_group, hospital, created_at FROM recipient_profiles WHERE user_id = $1`, userID)
}

func (r *recipientRepository) getOne(ctx context.Context, query string, arg int32) (*domain.RecipientProfile, error) {
	p := &domain.RecipientProfile{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&p.ID, &p.UserID, &p.Name, &p.BloodGroup, &p.Hospital, &p.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}
