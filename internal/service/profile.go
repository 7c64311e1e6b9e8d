package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/logger"
	"bloodlink-backend/internal/repository"
)

type profileService struct {
	userRepo      repository.UserRepository
	donorRepo     repository.DonorRepository
	recipientRepo repository.RecipientRepository
	now           func() time.Time
}

func NewProfileService(
	userRepo repository.UserRepository,
	donorRepo repository.DonorRepository,
	recipientRepo repository.RecipientRepository,
) ProfileService {
	return &profileService{
		userRepo:      userRepo,
		donorRepo:     donorRepo,
		recipientRepo: recipientRepo,
		now:           time.Now,
	}
}

func (s *profileService) CreateDonorProfile(ctx context.Context, userID int32, bloodGroup string, lastDonation *time.Time) (*domain.DonorView, error) {
	logger.EnterMethod("profileService.CreateDonorProfile", "userID", userID, "bloodGroup", bloodGroup)

	group, err := domain.ParseBloodGroup(bloodGroup)
	if err != nil {
		return nil, err
	}
	if lastDonation != nil && lastDonation.After(s.now()) {
		return nil, domain.Validation("last donation date cannot be in the future")
	}
	user, err := s.requireUser(ctx, userID, domain.UserRoleDonor)
	if err != nil {
		return nil, err
	}

	d := &domain.DonorProfile{UserID: userID, Name: user.Name, BloodGroup: group, LastDonationDate: lastDonation}
	if err := s.donorRepo.Create(ctx, d); err != nil {
		logger.ExitMethodWithError("profileService.CreateDonorProfile", err, "userID", userID)
		return nil, err
	}
	view := domain.NewDonorView(*d, s.now())
	logger.ExitMethod("profileService.CreateDonorProfile", "donorID", d.ID)
	return &view, nil
}

func (s *profileService) GetDonorProfile(ctx context.Context, donorID int32) (*domain.DonorView, error) {
	if donorID <= 0 {
		return nil, domain.Validation("donor id must be positive")
	}
	d, err := s.donorRepo.GetByID(ctx, donorID)
	if err != nil {
		return nil, donorNotFound(err, donorID)
	}
	view := domain.NewDonorView(*d, s.now())
	return &view, nil
}

func (s *profileService) GetDonorProfileByUser(ctx context.Context, userID int32) (*domain.DonorView, error) {
	d, err := s.donorRepo.GetByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.NotFound("donor profile for user %d not found", userID)
	}
	if err != nil {
		return nil, err
	}
	view := domain.NewDonorView(*d, s.now())
	return &view, nil
}

// UpdateDonorProfile applies only the fields set in update.
func (s *profileService) UpdateDonorProfile(ctx context.Context, donorID int32, update domain.DonorProfileUpdate) (*domain.DonorView, error) {
	if donorID <= 0 {
		return nil, domain.Validation("donor id must be positive")
	}
	if err := update.Validate(); err != nil {
		return nil, err
	}
	if t, ok := update.LastDonationDate.Get(); ok && t != nil && t.After(s.now()) {
		return nil, domain.Validation("last donation date cannot be in the future")
	}

	current, err := s.donorRepo.GetByID(ctx, donorID)
	if err != nil {
		return nil, donorNotFound(err, donorID)
	}
	next := update.Apply(*current)
	if err := s.donorRepo.Update(ctx, &next); err != nil {
		return nil, donorNotFound(err, donorID)
	}
	view := domain.NewDonorView(next, s.now())
	return &view, nil
}

func (s *profileService) CreateRecipientProfile(ctx context.Context, userID int32, name, bloodGroup, hospital string) (*domain.RecipientProfile, error) {
	group, err := domain.ParseBloodGroup(bloodGroup)
	if err != nil {
		return nil, err
	}
	user, err := s.requireUser(ctx, userID, domain.UserRoleRecipient)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = user.Name
	}

	p := &domain.RecipientProfile{
		UserID:     userID,
		Name:       name,
		BloodGroup: group,
		Hospital:   strings.TrimSpace(hospital),
	}
	if err := s.recipientRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *profileService) GetRecipientProfile(ctx context.Context, recipientID int32) (*domain.RecipientProfile, error) {
	if recipientID <= 0 {
		return nil, domain.Validation("recipient id must be positive")
	}
	p, err := s.recipientRepo.GetByID(ctx, recipientID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.NotFound("recipient %d not found", recipientID)
	}
	return p, err
}

func (s *profileService) GetRecipientProfileByUser(ctx context.Context, userID int32) (*domain.RecipientProfile, error) {
	p, err := s.recipientRepo.GetByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.NotFound("recipient profile not found")
	}
	return p, err
}

func (s *profileService) requireUser(ctx context.Context, userID int32, role domain.UserRole) (*domain.User, error) {
	if userID <= 0 {
		return nil, domain.Validation("user id must be positive")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.NotFound("user %d not found", userID)
	}
	if err != nil {
		return nil, err
	}
	if user.Role != role {
		return nil, domain.InvalidOperation("user %d has role %s, expected %s", userID, user.Role, role)
	}
	return user, nil
}
