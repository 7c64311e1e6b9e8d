package postgres

import (
	"context"
	"time"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/logger"
	"bloodlink-backend/internal/repository"
)

type bloodStockRepository struct {
	db DBTX
}

func NewBloodStockRepository(db DBTX) repository.BloodStockRepository {
	return &bloodStockRepository{db: db}
}

// AddUnits upserts in one statement so concurrent increments of the same row
// serialize on the row lock instead of losing updates.
func (r *bloodStockRepository) AddUnits(ctx context.Context, bankID int32, group domain.BloodGroup, units int32, at time.Time) (*domain.BloodStock, error) {
	logger.EnterMethod("bloodStockRepository.AddUnits", "bankID", bankID, "group", group, "units", units)

	query := `INSERT INTO blood_stocks (blood_bank_id, blood_group, units_available, last_updated)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (blood_bank_id, blood_group)
	          DO UPDATE SET units_available = blood_stocks.units_available + EXCLUDED.units_available,
	                        last_updated = EXCLUDED.last_updated
	          RETURNING id, blood_bank_id, blood_group, units_available, last_updated`
	logger.DatabaseCall("UPSERT", "blood_stocks", "bankID", bankID, "group", group)

	s := &domain.BloodStock{}
	err := r.db.QueryRowContext(ctx, query, bankID, group, units, at).
		Scan(&s.ID, &s.BloodBankID, &s.BloodGroup, &s.UnitsAvailable, &s.LastUpdated)
	logger.DatabaseResult("UPSERT", 1, err, "stockID", s.ID)
	if err != nil {
		logger.ExitMethodWithError("bloodStockRepository.AddUnits", err, "bankID", bankID)
		return nil, err
	}
	logger.ExitMethod("bloodStockRepository.AddUnits", "unitsAvailable", s.UnitsAvailable)
	return s, nil
}

func (r *bloodStockRepository) Get(ctx context.Context, bankID int32, group domain.BloodGroup) (*domain.BloodStock, error) {
	s := &domain.BloodStock{}
	query := `SELECT id, blood_bank_id, blood_group, units_available, last_updated
	          FROM blood_stocks WHERE blood_bank_id = $1 AND blood_group = $2`
	err := r.db.QueryRowContext(ctx, query, bankID, group).Scan(&s.ID, &s.BloodBankID, &s.BloodGroup, &s.UnitsAvailable, &s.LastUpdated)
	if err != nil {
		return nil, notFound(err)
	}
	return s, nil
}

func (r *bloodStockRepository) ListByBank(ctx context.Context, bankID int32) ([]domain.BloodStock, error) {
	query := `SELECT id, blood_bank_id, blood_group, units_available, last_updated
	          FROM blood_stocks WHERE blood_bank_id = $1 ORDER BY blood_group`
	return r.list(ctx, query, bankID)
}

func (r *bloodStockRepository) ListAll(ctx context.Context) ([]domain.BloodStock, error) {
	query := `SELECT id, blood_bank_id, blood_group, units_available, last_updated
	          FROM blood_stocks ORDER BY blood_bank_id, blood_group`
	return r.list(ctx, query)
}

func (r *bloodStockRepository) list(ctx context.Context, query string, args ...any) ([]domain.BloodStock, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stocks []domain.BloodStock
	for rows.Next() {
		var s domain.BloodStock
		if err := rows.Scan(&s.ID, &s.BloodBankID, &s.BloodGroup, &s.UnitsAvailable, &s.LastUpdated); err != nil {
			return nil, err
		}
		stocks = append(stocks, s)
	}
	return stocks, rows.Err()
}
