package service

import (
	"context"
	"time"

	"bloodlink-backend/internal/domain"
)

// RequestService owns the blood request lifecycle.
type RequestService interface {
	CreateRequest(ctx context.Context, recipientUserID int32, bloodGroup string, quantity int32) (*domain.BloodRequest, error)
	UpdateStatus(ctx context.Context, requestID int32, status string, override bool) (*domain.BloodRequest, error)
	FulfillByDonor(ctx context.Context, requestID, donorID, bloodBankID int32) (*domain.BloodRequest, error)
	DonorRespond(ctx context.Context, requestID, donorID int32, response string) (*domain.DonorRequestLink, error)
	GetRequest(ctx context.Context, requestID int32) (*domain.BloodRequest, error)
	ListRequests(ctx context.Context, filter domain.RequestFilter) ([]domain.BloodRequest, int32, error)
	ListDonorRequests(ctx context.Context, donorID int32) ([]domain.DonorRequestItem, error)
	DeleteRequest(ctx context.Context, requestID int32) error
	FindMatchingDonors(ctx context.Context, bloodGroup string) ([]domain.DonorView, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.NotificationLog, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
	MarkAllAsRead(ctx context.Context, userID int32) (int64, error)
	UnreadCount(ctx context.Context, userID int32) (int32, error)
}

type ProfileService interface {
	CreateDonorProfile(ctx context.Context, userID int32, bloodGroup string, lastDonation *time.Time) (*domain.DonorView, error)
	GetDonorProfile(ctx context.Context, donorID int32) (*domain.DonorView, error)
	GetDonorProfileByUser(ctx context.Context, userID int32) (*domain.DonorView, error)
	UpdateDonorProfile(ctx context.Context, donorID int32, update domain.DonorProfileUpdate) (*domain.DonorView, error)
	CreateRecipientProfile(ctx context.Context, userID int32, name, bloodGroup, hospital string) (*domain.RecipientProfile, error)
	GetRecipientProfile(ctx context.Context, recipientID int32) (*domain.RecipientProfile, error)
	GetRecipientProfileByUser(ctx context.Context, userID int32) (*domain.RecipientProfile, error)
}

type InventoryService interface {
	CreateBloodBank(ctx context.Context, name, location, contact string) (*domain.BloodBank, error)
	ListBloodBanks(ctx context.Context) ([]domain.BloodBank, error)
	GetStock(ctx context.Context, bankID int32) ([]domain.BloodStock, error)
	RecordDonation(ctx context.Context, donorID, bankID, quantity int32) (*domain.DonationRecord, error)
	Snapshot(ctx context.Context) (*InventorySnapshot, error)
}

// InventorySnapshot is everything the inventory report renders.
type InventorySnapshot struct {
	Banks     []domain.BloodBank
	Stock     []domain.BloodStock
	Donations []domain.DonationRecord
	TakenAt   time.Time
}

// EmailService mirrors selected notifications to email.
type EmailService interface {
	SendAdminDigest(ctx context.Context, to, name, subject, body string) error
	SendEligibilityReminder(ctx context.Context, to, name string, eligibleSince time.Time) error
}
