package services

import (
	"context"

	"carepath-api/internal/adapters/persistence/models"
	"carepath-api/internal/adapters/persistence/repositories"
)

// UserService handles user management business logic
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// PatientName is the short patient reference shown in user listings
type PatientName struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// UserWithPatients is a user plus the patients assigned to them
type UserWithPatients struct {
	*models.UserResponse
	AssignedPatients []PatientName `json:"assignedPatients"`
}

// ListUsers lists every non-admin user with the names of their patients
func (s *UserService) ListUsers(ctx context.Context) ([]*UserWithPatients, error) {
	users, err := s.userRepo.ListNonAdmin(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*UserWithPatients, len(users))
	for i, user := range users {
		patients := make([]PatientName, len(user.AssignedPatients))
		for j, p := range user.AssignedPatients {
			patients[j] = PatientName{ID: p.ID, FirstName: p.FirstName, LastName: p.LastName}
		}
		out[i] = &UserWithPatients{
			UserResponse:     user.ToResponse(),
			AssignedPatients: patients,
		}
	}
	return out, nil
}
