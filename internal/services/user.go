package services

import (
	"context"

	"github.com/google/uuid"

	userrepo "github.com/daftaros/daftar-backend/internal/data/repos/user"
	types "github.com/daftaros/daftar-backend/internal/domain"
	"github.com/daftaros/daftar-backend/internal/platform/logger"
)

type UserService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*types.User, error)
}

type userService struct {
	log   *logger.Logger
	users userrepo.UserRepo
}

func NewUserService(log *logger.Logger, users userrepo.UserRepo) UserService {
	return &userService{log: log.With("service", "UserService"), users: users}
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*types.User, error) {
	return s.users.GetByID(ctx, nil, id)
}
