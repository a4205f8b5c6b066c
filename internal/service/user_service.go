package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/runcoach/training-planner/internal/domain"
	"github.com/runcoach/training-planner/internal/repository"
)

// UserService manages user accounts and their planning profiles.
type UserService interface {
	Create(ctx context.Context, req *domain.CreateUserRequest) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req *domain.UpdateProfileRequest) (*domain.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Create(ctx context.Context, req *domain.CreateUserRequest) (*domain.User, error) {
	user := &domain.User{
		Timezone:    req.Timezone,
		RunningDays: normalizeRunningDays(req.RunningDays),
		Surfaces:    req.Surfaces,
		Shoes:       req.Shoes,
		HRZones:     req.HRZones,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) UpdateProfile(ctx context.Context, id uuid.UUID, req *domain.UpdateProfileRequest) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Timezone = req.Timezone
	user.RunningDays = normalizeRunningDays(req.RunningDays)
	user.Surfaces = req.Surfaces
	user.Shoes = req.Shoes
	user.HRZones = req.HRZones

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// normalizeRunningDays orders days Monday-first and drops duplicates, so the
// stored profile is canonical regardless of request ordering.
func normalizeRunningDays(days []string) []string {
	requested := make(map[string]bool, len(days))
	for _, d := range days {
		requested[d] = true
	}
	normalized := make([]string, 0, len(requested))
	for _, day := range domain.Weekdays {
		if requested[day] {
			normalized = append(normalized, day)
		}
	}
	return normalized
}
