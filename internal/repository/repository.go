package repository

import (
	"context"
	"errors"
	"time"

	"bloodlink-backend/internal/domain"
)

// ErrNotFound is returned by repositories when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error)
}

type DonorRepository interface {
	Create(ctx context.Context, donor *domain.DonorProfile) error
	GetByID(ctx context.Context, id int32) (*domain.DonorProfile, error)
	GetByUserID(ctx context.Context, userID int32) (*domain.DonorProfile, error)
	Update(ctx context.Context, donor *domain.DonorProfile) error
	ListByBloodGroups(ctx context.Context, groups []domain.BloodGroup) ([]domain.DonorProfile, error)
	// ListCooldownEndedBetween returns donors whose last donation plus the cooldown falls in [from, to).
	ListCooldownEndedBetween(ctx context.Context, from, to time.Time) ([]domain.DonorProfile, error)
}

type RecipientRepository interface {
	Create(ctx context.Context, recipient *domain.RecipientProfile) error
	GetByID(ctx context.Context, id int32) (*domain.RecipientProfile, error)
	GetByUserID(ctx context.Context, userID int32) (*domain.RecipientProfile, error)
}

type BloodBankRepository interface {
	Create(ctx context.Context, bank *domain.BloodBank) error
	GetByID(ctx context.Context, id int32) (*domain.BloodBank, error)
	GetFirst(ctx context.Context) (*domain.BloodBank, error)
	List(ctx context.Context) ([]domain.BloodBank, error)
}

type BloodStockRepository interface {
	// AddUnits increments the stock row for (bankID, group), creating it when absent.
	AddUnits(ctx context.Context, bankID int32, group domain.BloodGroup, units int32, at time.Time) (*domain.BloodStock, error)
	Get(ctx context.Context, bankID int32, group domain.BloodGroup) (*domain.BloodStock, error)
	ListByBank(ctx context.Context, bankID int32) ([]domain.BloodStock, error)
	ListAll(ctx context.Context) ([]domain.BloodStock, error)
}

type BloodRequestRepository interface {
	Create(ctx context.Context, req *domain.BloodRequest) error
	GetByID(ctx context.Context, id int32) (*domain.BloodRequest, error)
	// GetForUpdate reads the request and locks its row until the transaction ends.
	GetForUpdate(ctx context.Context, id int32) (*domain.BloodRequest, error)
	UpdateStatus(ctx context.Context, id int32, status domain.RequestStatus) error
	List(ctx context.Context, filter domain.RequestFilter) ([]domain.BloodRequest, int32, error)
	// ListPendingBetween returns Pending requests created in [from, to).
	ListPendingBetween(ctx context.Context, from, to time.Time) ([]domain.BloodRequest, error)
	Delete(ctx context.Context, id int32) error
}

type DonorRequestLinkRepository interface {
	Create(ctx context.Context, link *domain.DonorRequestLink) error
	Get(ctx context.Context, donorID, requestID int32) (*domain.DonorRequestLink, error)
	// SaveResponse records a donor's answer, creating the link when the donor was never matched.
	SaveResponse(ctx context.Context, donorID, requestID int32, status domain.ResponseStatus, at time.Time) (*domain.DonorRequestLink, error)
	ListByRequest(ctx context.Context, requestID int32) ([]domain.DonorRequestLink, error)
	ListByDonor(ctx context.Context, donorID int32) ([]domain.DonorRequestItem, error)
	DeleteByRequest(ctx context.Context, requestID int32) error
}

type DonationRepository interface {
	Create(ctx context.Context, rec *domain.DonationRecord) error
	ListByDonor(ctx context.Context, donorID int32) ([]domain.DonationRecord, error)
	ListAll(ctx context.Context) ([]domain.DonationRecord, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.NotificationLog) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.NotificationLog, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
	MarkAllAsRead(ctx context.Context, userID int32) (int64, error)
	CountUnread(ctx context.Context, userID int32) (int32, error)
}

// Repositories groups every repository bound to one connection or transaction.
type Repositories struct {
	Users         UserRepository
	Donors        DonorRepository
	Recipients    RecipientRepository
	Banks         BloodBankRepository
	Stock         BloodStockRepository
	Requests      BloodRequestRepository
	Links         DonorRequestLinkRepository
	Donations     DonationRepository
	Notifications NotificationRepository
}

// Transactor runs fn with repositories bound to a single database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
