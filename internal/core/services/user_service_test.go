package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/dejan-marlovic/relief-finance/internal/apperrors"
	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
	portssvc "github.com/dejan-marlovic/relief-finance/internal/core/ports/services"
	"github.com/dejan-marlovic/relief-finance/internal/core/services"
	"github.com/dejan-marlovic/relief-finance/internal/dto"
	"github.com/dejan-marlovic/relief-finance/internal/utils"
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

func (s *UserServiceTestSuite) TestCreateUser_Success() {
	ctx := context.Background()

	s.mockUserRepo.On("FindUserByUsername", ctx, "asha").Return(nil, apperrors.ErrNotFound).Once()
	s.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Username == "asha" && u.PasswordHash != "" && u.PasswordHash != "correct horse battery" && u.CreatedBy == "admin-1"
	})).Return(nil).Once()

	req := dto.CreateUserRequest{Username: "asha", Name: "Asha Demir", Password: "correct horse battery"}
	user, err := s.service.CreateUser(ctx, req, "admin-1")

	s.Require().NoError(err)
	s.NotEmpty(user.UserID)
	s.True(utils.CheckPasswordHash("correct horse battery", user.PasswordHash))
	s.mockUserRepo.AssertExpectations(s.T())
}

func (s *UserServiceTestSuite) TestCreateUser_DuplicateUsername() {
	ctx := context.Background()

	s.mockUserRepo.On("FindUserByUsername", ctx, "asha").Return(&domain.User{UserID: "user-1", Username: "asha"}, nil).Once()

	req := dto.CreateUserRequest{Username: "asha", Name: "Asha Demir", Password: "correct horse battery"}
	_, err := s.service.CreateUser(ctx, req, "admin-1")

	s.ErrorIs(err, apperrors.ErrDuplicate)
	s.mockUserRepo.AssertNotCalled(s.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (s *UserServiceTestSuite) TestAuthenticate_Success() {
	ctx := context.Background()
	hash, err := utils.HashPassword("correct horse battery")
	s.Require().NoError(err)

	s.mockUserRepo.On("FindUserByUsername", ctx, "asha").Return(&domain.User{UserID: "user-1", Username: "asha", PasswordHash: hash}, nil).Once()

	user, err := s.service.Authenticate(ctx, "asha", "correct horse battery")

	s.Require().NoError(err)
	s.Equal("user-1", user.UserID)
}

func (s *UserServiceTestSuite) TestAuthenticate_UnknownUserAndBadPasswordIndistinguishable() {
	ctx := context.Background()
	hash, err := utils.HashPassword("correct horse battery")
	s.Require().NoError(err)

	s.mockUserRepo.On("FindUserByUsername", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()
	s.mockUserRepo.On("FindUserByUsername", ctx, "asha").Return(&domain.User{UserID: "user-1", Username: "asha", PasswordHash: hash}, nil).Once()

	_, errUnknown := s.service.Authenticate(ctx, "ghost", "whatever")
	_, errBadPassword := s.service.Authenticate(ctx, "asha", "wrong password")

	s.Require().Error(errUnknown)
	s.Require().Error(errBadPassword)
	s.Equal(errUnknown.Error(), errBadPassword.Error())
	s.ErrorIs(errUnknown, apperrors.ErrValidation)
}

func TestUserService(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
