package postgres

import (
	"context"
	"fmt"
	"time"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/logger"
	"bloodlink-backend/internal/repository"

	"github.com/lib/pq"
)

const donorColumns = `d.id, d.user_id, COALESCE(u.name, ''), d.blood_group, d.last_donation_date, d.created_at, d.updated_at`

type donorRepository struct {
	db DBTX
}

func NewDonorRepository(db DBTX) repository.DonorRepository {
	return &donorRepository{db: db}
}

func scanDonor(row interface{ Scan(dest ...any) error }, d *domain.DonorProfile) error {
	return row.Scan(&d.ID, &d.UserID, &d.Name, &d.BloodGroup, &d.LastDonationDate, &d.CreatedAt, &d.UpdatedAt)
}

func (r *donorRepository) Create(ctx context.Context, d *domain.DonorProfile) error {
	query := `INSERT INTO donor_profiles (user_id, blood_group, last_donation_date, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query, d.UserID, d.BloodGroup, d.LastDonationDate, now, now).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.InvalidOperation("user %d already has a donor profile", d.UserID)
	}
	return err
}

func (r *donorRepository) GetByID(ctx context.Context, id int32) (*domain.DonorProfile, error) {
	d := &domain.DonorProfile{}
	query := `SELECT ` + donorColumns + ` FROM donor_profiles d LEFT JOIN users u ON u.id = d.user_id WHERE d.id = $1`
	if err := scanDonor(r.db.QueryRowContext(ctx, query, id), d); err != nil {
		return nil, notFound(err)
	}
	return d, nil
}

func (r *donorRepository) GetByUserID(ctx context.Context, userID int32) (*domain.DonorProfile, error) {
	d := &domain.DonorProfile{}
	query := `SELECT ` + donorColumns + ` FROM donor_profiles d LEFT JOIN users u ON u.id = d.user_id WHERE d.user_id = $1`
	if err := scanDonor(r.db.QueryRowContext(ctx, query, userID), d); err != nil {
		return nil, notFound(err)
	}
	return d, nil
}

func (r *donorRepository) Update(ctx context.Context, d *domain.DonorProfile) error {
	query := `UPDATE donor_profiles SET blood_group = $1, last_donation_date = $2, updated_at = $3 WHERE id = $4`
	d.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, query, d.BloodGroup, d.LastDonationDate, d.UpdatedAt, d.ID)
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

// ListByBloodGroups returns every donor in one of groups. Eligibility is
// decided by the caller.
func (r *donorRepository) ListByBloodGroups(ctx context.Context, groups []domain.BloodGroup) ([]domain.DonorProfile, error) {
	logger.EnterMethod("donorRepository.ListByBloodGroups", "groups", groups)

	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = string(g)
	}
	query := `SELECT ` + donorColumns + ` FROM donor_profiles d LEFT JOIN users u ON u.id = d.user_id
	          WHERE d.blood_group = ANY($1) ORDER BY d.id`
	logger.DatabaseCall("SELECT", "donor_profiles", "groups", names)

	donors, err := r.queryDonors(ctx, query, pq.Array(names))
	logger.DatabaseResult("SELECT", int64(len(donors)), err)
	if err != nil {
		logger.ExitMethodWithError("donorRepository.ListByBloodGroups", err)
		return nil, err
	}
	logger.ExitMethod("donorRepository.ListByBloodGroups", "count", len(donors))
	return donors, nil
}

func (r *donorRepository) ListCooldownEndedBetween(ctx context.Context, from, to time.Time) ([]domain.DonorProfile, error) {
	query := fmt.Sprintf(`SELECT %s FROM donor_profiles d LEFT JOIN users u ON u.id = d.user_id
	          WHERE d.last_donation_date IS NOT NULL
	            AND d.last_donation_date + INTERVAL '%d days' >= $1
	            AND d.last_donation_date + INTERVAL '%d days' < $2
	          ORDER BY d.id`, donorColumns, cooldownDays, cooldownDays)
	return r.queryDonors(ctx, query, from, to)
}

var cooldownDays = int(domain.DonationCooldown / (24 * time.Hour))

func (r *donorRepository) queryDonors(ctx context.Context, query string, args ...any) ([]domain.DonorProfile, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var donors []domain.DonorProfile
	for rows.Next() {
		var d domain.DonorProfile
		if err := scanDonor(rows, &d); err != nil {
			return nil, err
		}
		donors = append(donors, d)
	}
	return donors, rows.Err()
}
