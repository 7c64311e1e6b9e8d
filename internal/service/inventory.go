package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/logger"
	"bloodlink-backend/internal/metrics"
	"bloodlink-backend/internal/repository"
)

type inventoryService struct {
	repos   repository.Repositories
	tx      repository.Transactor
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewInventoryService(repos repository.Repositories, tx repository.Transactor, m *metrics.Metrics) InventoryService {
	return &inventoryService{repos: repos, tx: tx, metrics: m, now: time.Now}
}

func (s *inventoryService) CreateBloodBank(ctx context.Context, name, location, contact string) (*domain.BloodBank, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Validation("blood bank name is required")
	}
	b := &domain.BloodBank{Name: name, Location: strings.TrimSpace(location), Contact: strings.TrimSpace(contact)}
	if err := s.repos.Banks.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *inventoryService) ListBloodBanks(ctx context.Context) ([]domain.BloodBank, error) {
	return s.repos.Banks.List(ctx)
}

func (s *inventoryService) GetStock(ctx context.Context, bankID int32) ([]domain.BloodStock, error) {
	if bankID <= 0 {
		return nil, domain.Validation("blood bank id must be positive")
	}
	if _, err := s.repos.Banks.GetByID(ctx, bankID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound("blood bank %d not found", bankID)
		}
		return nil, err
	}
	return s.repos.Stock.ListByBank(ctx, bankID)
}

// RecordDonation books a walk-in donation that is not tied to a request.
func (s *inventoryService) RecordDonation(ctx context.Context, donorID, bankID, quantity int32) (*domain.DonationRecord, error) {
	logger.EnterMethod("inventoryService.RecordDonation", "donorID", donorID, "bankID", bankID, "quantity", quantity)

	if donorID <= 0 || bankID <= 0 {
		return nil, domain.Validation("donor id and blood bank id must be positive")
	}
	if err := domain.ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	now := s.now()
	var (
		record *domain.DonationRecord
		group  domain.BloodGroup
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		donor, err := repos.Donors.GetByID(ctx, donorID)
		if err != nil {
			return donorNotFound(err, donorID)
		}
		if !donor.EligibleAt(now) {
			return domain.InvalidOperation("donor %d is not eligible until %s", donorID, donor.NextEligibleDate().Format("2006-01-02"))
		}
		if _, err := repos.Banks.GetByID(ctx, bankID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.NotFound("blood bank %d not found", bankID)
			}
			return err
		}

		record = &domain.DonationRecord{
			DonorID:      donorID,
			BloodBankID:  bankID,
			DonationDate: now,
			Quantity:     quantity,
			Status:       domain.DonationStatusCompleted,
		}
		if err := repos.Donations.Create(ctx, record); err != nil {
			return err
		}

		donor.LastDonationDate = &now
		if err := repos.Donors.Update(ctx, donor); err != nil {
			return err
		}
		group = donor.BloodGroup
		_, err = repos.Stock.AddUnits(ctx, bankID, donor.BloodGroup, quantity, now)
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("inventoryService.RecordDonation", err, "donorID", donorID)
		return nil, err
	}

	s.metrics.StockUnitsAdded.WithLabelValues(string(group)).Add(float64(quantity))
	logger.ExitMethod("inventoryService.RecordDonation", "donationID", record.ID)
	return record, nil
}

func (s *inventoryService) Snapshot(ctx context.Context) (*InventorySnapshot, error) {
	banks, err := s.repos.Banks.List(ctx)
	if err != nil {
		return nil, err
	}
	stock, err := s.repos.Stock.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	donations, err := s.repos.Donations.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return &InventorySnapshot{Banks: banks, Stock: stock, Donations: donations, TakenAt: s.now()}, nil
}
