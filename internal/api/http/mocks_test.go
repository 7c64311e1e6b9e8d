package http

import (
	"context"
	"time"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockRequestService struct {
	mock.Mock
}

func (m *MockRequestService) CreateRequest(ctx context.Context, recipientUserID int32, bloodGroup string, quantity int32) (*domain.BloodRequest, error) {
	args := m.Called(ctx, recipientUserID, bloodGroup, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BloodRequest), args.Error(1)
}
func (m *MockRequestService) UpdateStatus(ctx context.Context, requestID int32, status string, override bool) (*domain.BloodRequest, error) {
	args := m.Called(ctx, requestID, status, override)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BloodRequest), args.Error(1)
}
func (m *MockRequestService) FulfillByDonor(ctx context.Context, requestID, donorID, bloodBankID int32) (*domain.BloodRequest, error) {
	args := m.Called(ctx, requestID, donorID, bloodBankID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BloodRequest), args.Error(1)
}
func (m *MockRequestService) DonorRespond(ctx context.Context, requestID, donorID int32, response string) (*domain.DonorRequestLink, error) {
	args := m.Called(ctx, requestID, donorID, response)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DonorRequestLink), args.Error(1)
}
func (m *MockRequestService) GetRequest(ctx context.Context, requestID int32) (*domain.BloodRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BloodRequest), args.Error(1)
}
func (m *MockRequestService) ListRequests(ctx context.Context, filter domain.RequestFilter) ([]domain.BloodRequest, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.BloodRequest), args.Get(1).(int32), args.Error(2)
}
func (m *MockRequestService) ListDonorRequests(ctx context.Context, donorID int32) ([]domain.DonorRequestItem, error) {
	args := m.Called(ctx, donorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DonorRequestItem), args.Error(1)
}
func (m *MockRequestService) DeleteRequest(ctx context.Context, requestID int32) error {
	args := m.Called(ctx, requestID)
	return args.Error(0)
}
func (m *MockRequestService) FindMatchingDonors(ctx context.Context, bloodGroup string) ([]domain.DonorView, error) {
	args := m.Called(ctx, bloodGroup)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DonorView), args.Error(1)
}

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) CreateDonorProfile(ctx context.Context, userID int32, bloodGroup string, lastDonation *time.Time) (*domain.DonorView, error) {
	args := m.Called(ctx, userID, bloodGroup, lastDonation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DonorView), args.Error(1)
}
func (m *MockProfileService) GetDonorProfile(ctx context.Context, donorID int32) (*domain.DonorView, error) {
	args := m.Called(ctx, donorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DonorView), args.Error(1)
}
func (m *MockProfileService) GetDonorProfileByUser(ctx context.Context, userID int32) (*domain.DonorView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DonorView), args.Error(1)
}
func (m *MockProfileService) UpdateDonorProfile(ctx context.Context, donorID int32, update domain.DonorProfileUpdate) (*domain.DonorView, error) {
	args := m.Called(ctx, donorID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DonorView), args.Error(1)
}
func (m *MockProfileService) CreateRecipientProfile(ctx context.Context, userID int32, name, bloodGroup, hospital string) (*domain.RecipientProfile, error) {
	args := m.Called(ctx, userID, name, bloodGroup, hospital)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecipientProfile), args.Error(1)
}
func (m *MockProfileService) GetRecipientProfile(ctx context.Context, recipientID int32) (*domain.RecipientProfile, error) {
	args := m.Called(ctx, recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecipientProfile), args.Error(1)
}
func (m *MockProfileService) GetRecipientProfileByUser(ctx context.Context, userID int32) (*domain.RecipientProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecipientProfile), args.Error(1)
}

type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) CreateBloodBank(ctx context.Context, name, location, contact string) (*domain.BloodBank, error) {
	args := m.Called(ctx, name, location, contact)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BloodBank), args.Error(1)
}
func (m *MockInventoryService) ListBloodBanks(ctx context.Context) ([]domain.BloodBank, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BloodBank), args.Error(1)
}
func (m *MockInventoryService) GetStock(ctx context.Context, bankID int32) ([]domain.BloodStock, error) {
	args := m.Called(ctx, bankID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BloodStock), args.Error(1)
}
func (m *MockInventoryService) RecordDonation(ctx context.Context, donorID, bankID, quantity int32) (*domain.DonationRecord, error) {
	args := m.Called(ctx, donorID, bankID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DonationRecord), args.Error(1)
}
func (m *MockInventoryService) Snapshot(ctx context.Context) (*service.InventorySnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InventorySnapshot), args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.NotificationLog, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.NotificationLog), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationService) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}
func (m *MockNotificationService) MarkAllAsRead(ctx context.Context, userID int32) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockNotificationService) UnreadCount(ctx context.Context, userID int32) (int32, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int32), args.Error(1)
}
