package jobs

import (
	"context"
	"time"

	"bloodlink-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

// MockDonorRepo only implements the lookups the jobs use.
type MockDonorRepo struct {
	mock.Mock
}

func (m *MockDonorRepo) Create(ctx context.Context, donor *domain.DonorProfile) error {
	panic("not used by jobs")
}
func (m *MockDonorRepo) GetByID(ctx context.Context, id int32) (*domain.DonorProfile, error) {
	panic("not used by jobs")
}
func (m *MockDonorRepo) GetByUserID(ctx context.Context, userID int32) (*domain.DonorProfile, error) {
	panic("not used by jobs")
}
func (m *MockDonorRepo) Update(ctx context.Context, donor *domain.DonorProfile) error {
	panic("not used by jobs")
}
func (m *MockDonorRepo) ListByBloodGroups(ctx context.Context, groups []domain.BloodGroup) ([]domain.DonorProfile, error) {
	panic("not used by jobs")
}
func (m *MockDonorRepo) ListCooldownEndedBetween(ctx context.Context, from, to time.Time) ([]domain.DonorProfile, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DonorProfile), args.Error(1)
}

type MockRequestRepo struct {
	mock.Mock
}

func (m *MockRequestRepo) Create(ctx context.Context, req *domain.BloodRequest) error {
	panic("not used by jobs")
}
func (m *MockRequestRepo) GetByID(ctx context.Context, id int32) (*domain.BloodRequest, error) {
	panic("not used by jobs")
}
func (m *MockRequestRepo) GetForUpdate(ctx context.Context, id int32) (*domain.BloodRequest, error) {
	panic("not used by jobs")
}
func (m *MockRequestRepo) UpdateStatus(ctx context.Context, id int32, status domain.RequestStatus) error {
	panic("not used by jobs")
}
func (m *MockRequestRepo) List(ctx context.Context, filter domain.RequestFilter) ([]domain.BloodRequest, int32, error) {
	panic("not used by jobs")
}
func (m *MockRequestRepo) ListPendingBetween(ctx context.Context, from, to time.Time) ([]domain.BloodRequest, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BloodRequest), args.Error(1)
}
func (m *MockRequestRepo) Delete(ctx context.Context, id int32) error {
	panic("not used by jobs")
}

type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.NotificationLog) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.NotificationLog, int32, error) {
	panic("not used by jobs")
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	panic("not used by jobs")
}
func (m *MockNotificationRepo) MarkAllAsRead(ctx context.Context, userID int32) (int64, error) {
	panic("not used by jobs")
}
func (m *MockNotificationRepo) CountUnread(ctx context.Context, userID int32) (int32, error) {
	panic("not used by jobs")
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendAdminDigest(ctx context.Context, to, name, subject, body string) error {
	args := m.Called(ctx, to, name, subject, body)
	return args.Error(0)
}
func (m *MockEmailService) SendEligibilityReminder(ctx context.Context, to, name string, eligibleSince time.Time) error {
	args := m.Called(ctx, to, name, eligibleSince)
	return args.Error(0)
}
