package service

import (
	"context"
	"sync"
	"time"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/events"
	"bloodlink-backend/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockUserRepo
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

// MockDonorRepo
type MockDonorRepo struct {
	mock.Mock
}

func (m *MockDonorRepo) Create(ctx context.Context, donor *domain.DonorProfile) error {
	args := m.Called(ctx, donor)
	return args.Error(0)
}
func (m *MockDonorRepo) GetByID(ctx context.Context, id int32) (*domain.DonorProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DonorProfile), args.Error(1)
}
func (m *MockDonorRepo) GetByUserID(ctx context.Context, userID int32) (*domain.DonorProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DonorProfile), args.Error(1)
}
func (m *MockDonorRepo) Update(ctx context.Context, donor *domain.DonorProfile) error {
	args := m.Called(ctx, donor)
	return args.Error(0)
}
func (m *MockDonorRepo) ListByBloodGroups(ctx context.Context, groups []domain.BloodGroup) ([]domain.DonorProfile, error) {
	args := m.Called(ctx, groups)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DonorProfile), args.Error(1)
}
func (m *MockDonorRepo) ListCooldownEndedBetween(ctx context.Context, from, to time.Time) ([]domain.DonorProfile, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DonorProfile), args.Error(1)
}

// MockRecipientRepo
type MockRecipientRepo struct {
	mock.Mock
}

func (m *MockRecipientRepo) Create(ctx context.Context, p *domain.RecipientProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockRecipientRepo) GetByID(ctx context.Context, id int32) (*domain.RecipientProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecipientProfile), args.Error(1)
}
func (m *MockRecipientRepo) GetByUserID(ctx context.Context, userID int32) (*domain.RecipientProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecipientProfile), args.Error(1)
}

// MockBankRepo
type MockBankRepo struct {
	mock.Mock
}

func (m *MockBankRepo) Create(ctx context.Context, b *domain.BloodBank) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBankRepo) GetByID(ctx context.Context, id int32) (*domain.BloodBank, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BloodBank), args.Error(1)
}
func (m *MockBankRepo) GetFirst(ctx context.Context) (*domain.BloodBank, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BloodBank), args.Error(1)
}
func (m *MockBankRepo) List(ctx context.Context) ([]domain.BloodBank, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BloodBank), args.Error(1)
}

// MockStockRepo
type MockStockRepo struct {
	mock.Mock
}

func (m *MockStockRepo) AddUnits(ctx context.Context, bankID int32, group domain.BloodGroup, units int32, at time.Time) (*domain.BloodStock, error) {
	args := m.Called(ctx, bankID, group, units, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BloodStock), args.Error(1)
}
func (m *MockStockRepo) Get(ctx context.Context, bankID int32, group domain.BloodGroup) (*domain.BloodStock, error) {
	args := m.Called(ctx, bankID, group)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BloodStock), args.Error(1)
}
func (m *MockStockRepo) ListByBank(ctx context.Context, bankID int32) ([]domain.BloodStock, error) {
	args := m.Called(ctx, bankID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BloodStock), args.Error(1)
}
func (m *MockStockRepo) ListAll(ctx context.Context) ([]domain.BloodStock, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BloodStock), args.Error(1)
}

// MockRequestRepo
type MockRequestRepo struct {
	mock.Mock
}

func (m *MockRequestRepo) Create(ctx context.Context, req *domain.BloodRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockRequestRepo) GetByID(ctx context.Context, id int32) (*domain.BloodRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BloodRequest), args.Error(1)
}
func (m *MockRequestRepo) GetForUpdate(ctx context.Context, id int32) (*domain.BloodRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BloodRequest), args.Error(1)
}
func (m *MockRequestRepo) UpdateStatus(ctx context.Context, id int32, status domain.RequestStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockRequestRepo) List(ctx context.Context, filter domain.RequestFilter) ([]domain.BloodRequest, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.BloodRequest), args.Get(1).(int32), args.Error(2)
}
func (m *MockRequestRepo) ListPendingBetween(ctx context.Context, from, to time.Time) ([]domain.BloodRequest, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BloodRequest), args.Error(1)
}
func (m *MockRequestRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockLinkRepo
type MockLinkRepo struct {
	mock.Mock
}

func (m *MockLinkRepo) Create(ctx context.Context, link *domain.DonorRequestLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}
func (m *MockLinkRepo) Get(ctx context.Context, donorID, requestID int32) (*domain.DonorRequestLink, error) {
	args := m.Called(ctx, donorID, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DonorRequestLink), args.Error(1)
}
func (m *MockLinkRepo) SaveResponse(ctx context.Context, donorID, requestID int32, status domain.ResponseStatus, at time.Time) (*domain.DonorRequestLink, error) {
	args := m.Called(ctx, donorID, requestID, status, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DonorRequestLink), args.Error(1)
}
func (m *MockLinkRepo) ListByRequest(ctx context.Context, requestID int32) ([]domain.DonorRequestLink, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DonorRequestLink), args.Error(1)
}
func (m *MockLinkRepo) ListByDonor(ctx context.Context, donorID int32) ([]domain.DonorRequestItem, error) {
	args := m.Called(ctx, donorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DonorRequestItem), args.Error(1)
}
func (m *MockLinkRepo) DeleteByRequest(ctx context.Context, requestID int32) error {
	args := m.Called(ctx, requestID)
	return args.Error(0)
}

// MockDonationRepo
type MockDonationRepo struct {
	mock.Mock
}

func (m *MockDonationRepo) Create(ctx context.Context, rec *domain.DonationRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}
func (m *MockDonationRepo) ListByDonor(ctx context.Context, donorID int32) ([]domain.DonationRecord, error) {
	args := m.Called(ctx, donorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DonationRecord), args.Error(1)
}
func (m *MockDonationRepo) ListAll(ctx context.Context) ([]domain.DonationRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DonationRecord), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.NotificationLog) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.NotificationLog, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.NotificationLog), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}
func (m *MockNotificationRepo) MarkAllAsRead(ctx context.Context, userID int32) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockNotificationRepo) CountUnread(ctx context.Context, userID int32) (int32, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int32), args.Error(1)
}

// mockRepos bundles one mock per repository.
type mockRepos struct {
	users      *MockUserRepo
	donors     *MockDonorRepo
	recipients *MockRecipientRepo
	banks      *MockBankRepo
	stock      *MockStockRepo
	requests   *MockRequestRepo
	links      *MockLinkRepo
	donations  *MockDonationRepo
	notes      *MockNotificationRepo
}

func newMockRepos() *mockRepos {
	return &mockRepos{
		users:      new(MockUserRepo),
		donors:     new(MockDonorRepo),
		recipients: new(MockRecipientRepo),
		banks:      new(MockBankRepo),
		stock:      new(MockStockRepo),
		requests:   new(MockRequestRepo),
		links:      new(MockLinkRepo),
		donations:  new(MockDonationRepo),
		notes:      new(MockNotificationRepo),
	}
}

func (m *mockRepos) repos() repository.Repositories {
	return repository.Repositories{
		Users:         m.users,
		Donors:        m.donors,
		Recipients:    m.recipients,
		Banks:         m.banks,
		Stock:         m.stock,
		Requests:      m.requests,
		Links:         m.links,
		Donations:     m.donations,
		Notifications: m.notes,
	}
}

type assertExpectationser interface {
	AssertExpectations(t mock.TestingT) bool
}

func (m *mockRepos) assertExpectations(t mock.TestingT) {
	for _, r := range []assertExpectationser{m.users, m.donors, m.recipients, m.banks, m.stock, m.requests, m.links, m.donations, m.notes} {
		r.AssertExpectations(t)
	}
}

// fakeTx runs fn against the same mocks and records whether it would commit.
type fakeTx struct {
	repos     repository.Repositories
	calls     int
	committed int
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	f.calls++
	if err := fn(ctx, f.repos); err != nil {
		return err
	}
	f.committed++
	return nil
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.RequestEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, ev events.RequestEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []events.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.EventType, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}
