package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JobSiteOps/job_tracking_app/internal/apperrors"
	"github.com/JobSiteOps/job_tracking_app/internal/core/domain"
	portsrepo "github.com/JobSiteOps/job_tracking_app/internal/core/ports/repositories"
	portssvc "github.com/JobSiteOps/job_tracking_app/internal/core/ports/services"
	"github.com/JobSiteOps/job_tracking_app/internal/dto"
	"github.com/JobSiteOps/job_tracking_app/internal/middleware"
	"github.com/JobSiteOps/job_tracking_app/internal/utils"
	"github.com/google/uuid"
)

type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new user service instance.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}
	return user, nil
}

func (s *userService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, requestingUserID string, limit, offset int) ([]domain.User, error) {
	requester, err := s.userRepo.FindUserByID(ctx, requestingUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load requesting user: %w", err)
	}
	if !requester.Role.Has(domain.PermViewAllUsers) {
		return nil, apperrors.NewForbiddenError("not permitted to list users")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	users, err := s.userRepo.FindUsers(ctx, requester.OrgID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	role := domain.Role(req.Role)
	if !role.Valid() {
		return nil, apperrors.NewValidationFailedError("invalid role: " + req.Role)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	newUserID := uuid.NewString()
	user := domain.User{
		UserID:       newUserID,
		Username:     req.Username,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         role,
		OrgID:        req.OrgID,
		OfficeID:     req.OfficeID,
		DepartmentID: req.DepartmentID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     newUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: newUserID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	logger.Info("User created", slog.String("user_id", newUserID), slog.String("role", req.Role))
	return &user, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	requester, err := s.userRepo.FindUserByID(ctx, requestingUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load requesting user: %w", err)
	}
	// Users may edit their own profile; role changes need user management rights.
	if userID != requestingUserID && !requester.Role.Has(domain.PermManageUsers) {
		return nil, apperrors.NewForbiddenError("not permitted to update other users")
	}
	if req.Role != nil && !requester.Role.Has(domain.PermManageUsers) {
		return nil, apperrors.NewForbiddenError("not permitted to change roles")
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s for update: %w", userID, err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		if !role.Valid() {
			return nil, apperrors.NewValidationFailedError("invalid role: " + *req.Role)
		}
		user.Role = role
	}
	if req.OfficeID != nil {
		user.OfficeID = req.OfficeID
	}
	if req.DepartmentID != nil {
		user.DepartmentID = req.DepartmentID
	}
	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = requestingUserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", userID, err)
	}
	return user, nil
}

func (s *userService) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, &refreshTokenHash, &refreshTokenExpiryTime); err != nil {
		return fmt.Errorf("failed to update refresh token for user %s: %w", userID, err)
	}
	return nil
}

func (s *userService) ClearRefreshToken(ctx context.Context, userID string) error {
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, nil, nil); err != nil {
		return fmt.Errorf("failed to clear refresh token for user %s: %w", userID, err)
	}
	return nil
}

func (s *userService) DeleteUser(ctx context.Context, userID string, requestingUserID string) error {
	requester, err := s.userRepo.FindUserByID(ctx, requestingUserID)
	if err != nil {
		return fmt.Errorf("failed to load requesting user: %w", err)
	}
	if !requester.Role.Has(domain.PermManageUsers) {
		return apperrors.NewForbiddenError("not permitted to delete users")
	}
	if err := s.userRepo.MarkUserDeleted(ctx, userID, time.Now(), requestingUserID); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", userID, err)
	}
	return nil
}

func (s *userService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		// Do not reveal whether the username exists.
		logger.Warn("Authentication failed", slog.String("username", username))
		return nil, apperrors.ErrUnauthorized
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		logger.Warn("Authentication failed", slog.String("username", username))
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}
