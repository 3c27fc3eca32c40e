package services_test

import (
	"context"
	"testing"

	"github.com/JobSiteOps/job_tracking_app/internal/apperrors"
	"github.com/JobSiteOps/job_tracking_app/internal/core/domain"
	portssvc "github.com/JobSiteOps/job_tracking_app/internal/core/ports/services"
	"github.com/JobSiteOps/job_tracking_app/internal/core/services"
	"github.com/JobSiteOps/job_tracking_app/internal/dto"
	"github.com/JobSiteOps/job_tracking_app/internal/utils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
}

func (s *UserServiceTestSuite) SetupTest() {
	s.mockUserRepo = new(MockUserRepository)
	s.service = services.NewUserService(s.mockUserRepo)
}

func orgAdmin() *domain.User {
	return &domain.User{
		UserID: "admin1",
		Role:   domain.RoleOrgAdmin,
		OrgID:  "org-1",
	}
}

func (s *UserServiceTestSuite) TestCreateUser_Success() {
	ctx := context.Background()
	s.mockUserRepo.On("SaveUser", mock.Anything, mock.MatchedBy(func(user domain.User) bool {
		return user.Username == "newtech@example.com" &&
			user.Role == domain.RoleMember &&
			user.OrgID == "org-1" &&
			user.PasswordHash != "" &&
			user.PasswordHash != "a-strong-password"
	})).Return(nil).Once()

	user, err := s.service.CreateUser(ctx, dto.CreateUserRequest{
		Username: "newtech@example.com",
		Password: "a-strong-password",
		Name:     "New Tech",
		Role:     "MEMBER",
		OrgID:    "org-1",
	})

	s.NoError(err)
	s.NotEmpty(user.UserID)
	s.mockUserRepo.AssertExpectations(s.T())
}

func (s *UserServiceTestSuite) TestCreateUser_InvalidRole() {
	ctx := context.Background()

	user, err := s.service.CreateUser(ctx, dto.CreateUserRequest{
		Username: "x@example.com",
		Password: "a-strong-password",
		Name:     "X",
		Role:     "SUPERUSER",
		OrgID:    "org-1",
	})

	s.Nil(user)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockUserRepo.AssertNotCalled(s.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (s *UserServiceTestSuite) TestListUsers_RequiresPermission() {
	ctx := context.Background()
	member := &domain.User{UserID: "tech1", Role: domain.RoleMember, OrgID: "org-1"}
	s.mockUserRepo.On("FindUserByID", mock.Anything, "tech1").Return(member, nil).Once()

	users, err := s.service.ListUsers(ctx, "tech1", 20, 0)

	s.Nil(users)
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *UserServiceTestSuite) TestListUsers_ScopedToRequesterOrg() {
	ctx := context.Background()
	s.mockUserRepo.On("FindUserByID", mock.Anything, "admin1").Return(orgAdmin(), nil).Once()
	s.mockUserRepo.On("FindUsers", mock.Anything, "org-1", 20, 0).
		Return([]domain.User{*orgAdmin()}, nil).Once()

	users, err := s.service.ListUsers(ctx, "admin1", 0, -5)

	s.NoError(err)
	s.Len(users, 1)
	s.mockUserRepo.AssertExpectations(s.T())
}

func (s *UserServiceTestSuite) TestUpdateUser_SelfEditAllowed() {
	ctx := context.Background()
	member := &domain.User{UserID: "tech1", Role: domain.RoleMember, OrgID: "org-1", Name: "Old Name"}
	s.mockUserRepo.On("FindUserByID", mock.Anything, "tech1").Return(member, nil).Twice()
	s.mockUserRepo.On("UpdateUser", mock.Anything, mock.MatchedBy(func(user domain.User) bool {
		return user.Name == "New Name"
	})).Return(nil).Once()

	newName := "New Name"
	user, err := s.service.UpdateUser(ctx, "tech1", dto.UpdateUserRequest{Name: &newName}, "tech1")

	s.NoError(err)
	s.Equal("New Name", user.Name)
}

func (s *UserServiceTestSuite) TestUpdateUser_RoleChangeNeedsManageUsers() {
	ctx := context.Background()
	member := &domain.User{UserID: "tech1", Role: domain.RoleMember, OrgID: "org-1"}
	s.mockUserRepo.On("FindUserByID", mock.Anything, "tech1").Return(member, nil).Once()

	newRole := "DEPT_MANAGER"
	_, err := s.service.UpdateUser(ctx, "tech1", dto.UpdateUserRequest{Role: &newRole}, "tech1")

	s.ErrorIs(err, apperrors.ErrForbidden)
	s.mockUserRepo.AssertNotCalled(s.T(), "UpdateUser", mock.Anything, mock.Anything)
}

func (s *UserServiceTestSuite) TestUpdateUser_OtherUserNeedsManageUsers() {
	ctx := context.Background()
	member := &domain.User{UserID: "tech1", Role: domain.RoleMember, OrgID: "org-1"}
	s.mockUserRepo.On("FindUserByID", mock.Anything, "tech1").Return(member, nil).Once()

	newName := "Hijacked"
	_, err := s.service.UpdateUser(ctx, "tech2", dto.UpdateUserRequest{Name: &newName}, "tech1")

	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *UserServiceTestSuite) TestDeleteUser_RequiresManageUsers() {
	ctx := context.Background()
	member := &domain.User{UserID: "tech1", Role: domain.RoleMember, OrgID: "org-1"}
	s.mockUserRepo.On("FindUserByID", mock.Anything, "tech1").Return(member, nil).Once()

	err := s.service.DeleteUser(ctx, "tech2", "tech1")

	s.ErrorIs(err, apperrors.ErrForbidden)
	s.mockUserRepo.AssertNotCalled(s.T(), "MarkUserDeleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *UserServiceTestSuite) TestAuthenticateUser_Success() {
	ctx := context.Background()
	hash, err := utils.HashPassword("correct-horse")
	s.Require().NoError(err)
	stored := &domain.User{UserID: "tech1", Username: "tech1@example.com", PasswordHash: hash}
	s.mockUserRepo.On("FindUserByUsername", mock.Anything, "tech1@example.com").Return(stored, nil).Once()

	user, err := s.service.AuthenticateUser(ctx, "tech1@example.com", "correct-horse")

	s.NoError(err)
	s.Equal("tech1", user.UserID)
}

func (s *UserServiceTestSuite) TestAuthenticateUser_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("correct-horse")
	s.Require().NoError(err)
	stored := &domain.User{UserID: "tech1", Username: "tech1@example.com", PasswordHash: hash}
	s.mockUserRepo.On("FindUserByUsername", mock.Anything, "tech1@example.com").Return(stored, nil).Once()

	_, err = s.service.AuthenticateUser(ctx, "tech1@example.com", "battery-staple")

	s.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (s *UserServiceTestSuite) TestAuthenticateUser_UnknownUsernameHidden() {
	ctx := context.Background()
	s.mockUserRepo.On("FindUserByUsername", mock.Anything, "ghost@example.com").
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.AuthenticateUser(ctx, "ghost@example.com", "whatever")

	s.ErrorIs(err, apperrors.ErrUnauthorized)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
