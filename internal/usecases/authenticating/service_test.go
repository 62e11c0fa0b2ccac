package authenticating

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xixoi/ads-autopilot-api/infrastructure/repository/mocks"
	"github.com/xixoi/ads-autopilot-api/internal/config"
	"github.com/xixoi/ads-autopilot-api/internal/domain"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(mockUserRepo *mocks.MockUserRepository) *Service {
	return &Service{
		userRepo: mockUserRepo,
		cfg: &config.Config{
			Auth: config.Auth{Secret: "segredo-de-teste"},
		},
	}
}

func hashPassword(t *testing.T, password string) string {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	assert.NoError(t, err)
	return string(hashed)
}

func TestLoginUser(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		setup    func(t *testing.T, mockUserRepo *mocks.MockUserRepository)
		validate func(t *testing.T, service *Service, token string, err error)
	}{
		{
			name:     "login válido devolve JWT com tier do usuário",
			email:    "Ana@xiXoi.com ",
			password: "senha-correta",
			setup: func(t *testing.T, mockUserRepo *mocks.MockUserRepository) {
				mockUserRepo.EXPECT().
					GetUserByEmail("ana@xixoi.com").
					Return(&domain.User{
						ID:           10,
						Name:         "Ana",
						Email:        "ana@xixoi.com",
						PasswordHash: hashPassword(t, "senha-correta"),
						Active:       true,
						RoleID:       3,
						Tier:         domain.TierPro,
					}, nil)
			},
			validate: func(t *testing.T, service *Service, token string, err error) {
				assert.NoError(t, err)
				assert.NotEmpty(t, token)

				claims, err := service.ValidateToken(token)
				assert.NoError(t, err)
				assert.Equal(t, 10, claims.UserID)
				assert.Equal(t, domain.TierPro, claims.UserTier)
			},
		},
		{
			name:     "usuário inexistente",
			email:    "ninguem@xixoi.com",
			password: "qualquer",
			setup: func(t *testing.T, mockUserRepo *mocks.MockUserRepository) {
				mockUserRepo.EXPECT().
					GetUserByEmail("ninguem@xixoi.com").
					Return(nil, nil)
			},
			validate: func(t *testing.T, service *Service, token string, err error) {
				assert.Empty(t, token)
				assert.ErrorIs(t, err, ErrUserNotFound)
			},
		},
		{
			name:     "conta desativada",
			email:    "ana@xixoi.com",
			password: "senha-correta",
			setup: func(t *testing.T, mockUserRepo *mocks.MockUserRepository) {
				mockUserRepo.EXPECT().
					GetUserByEmail("ana@xixoi.com").
					Return(&domain.User{
						ID:           10,
						PasswordHash: hashPassword(t, "senha-correta"),
						Active:       false,
					}, nil)
			},
			validate: func(t *testing.T, service *Service, token string, err error) {
				assert.Empty(t, token)
				assert.ErrorIs(t, err, ErrUserDisabled)
			},
		},
		{
			name:     "senha incorreta",
			email:    "ana@xixoi.com",
			password: "senha-errada",
			setup: func(t *testing.T, mockUserRepo *mocks.MockUserRepository) {
				mockUserRepo.EXPECT().
					GetUserByEmail("ana@xixoi.com").
					Return(&domain.User{
						ID:           10,
						PasswordHash: hashPassword(t, "senha-correta"),
						Active:       true,
					}, nil)
			},
			validate: func(t *testing.T, service *Service, token string, err error) {
				assert.Empty(t, token)
				assert.ErrorIs(t, err, ErrInvalidCredentials)
			},
		},
		{
			name:     "email vazio",
			email:    "",
			password: "senha",
			setup:    func(t *testing.T, mockUserRepo *mocks.MockUserRepository) {},
			validate: func(t *testing.T, service *Service, token string, err error) {
				assert.Empty(t, token)
				assert.ErrorIs(t, err, ErrMissingRequiredData)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockUserRepo := mocks.NewMockUserRepository(ctrl)
			tt.setup(t, mockUserRepo)

			service := newAuthService(mockUserRepo)

			token, err := service.LoginUser(tt.email, tt.password)
			tt.validate(t, service, token, err)
		})
	}
}

func TestCreateUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := mocks.NewMockUserRepository(ctrl)
	service := newAuthService(mockUserRepo)

	mockUserRepo.EXPECT().GetUserByEmail("ana@xixoi.com").Return(nil, nil)

	var created *domain.User
	mockUserRepo.EXPECT().
		CreateUser(gomock.Any()).
		DoAndReturn(func(user *domain.User) (*domain.User, error) {
			created = user
			return user, nil
		})

	_, err := service.CreateUser(&domain.User{
		Name:         "Ana",
		Lastname:     "Silva",
		Email:        " Ana@xiXoi.com",
		PasswordHash: "senha-em-claro",
	})

	assert.NoError(t, err)
	assert.Equal(t, "ana@xixoi.com", created.Email)
	assert.False(t, created.Active)
	assert.Equal(t, 3, created.RoleID)

	// Novos usuários sempre começam no tier free com autopilot desligado
	assert.Equal(t, domain.TierFree, created.Tier)
	assert.Equal(t, domain.AutopilotOff, created.AutopilotMode)

	// A senha nunca é persistida em claro
	assert.NotEqual(t, "senha-em-claro", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("senha-em-claro")))
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := mocks.NewMockUserRepository(ctrl)
	service := newAuthService(mockUserRepo)

	mockUserRepo.EXPECT().
		GetUserByEmail("ana@xixoi.com").
		Return(&domain.User{ID: 10, Email: "ana@xixoi.com"}, nil)

	user, err := service.CreateUser(&domain.User{
		Name:         "Ana",
		Lastname:     "Silva",
		Email:        "ana@xixoi.com",
		PasswordHash: "senha",
	})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestUpdateAutopilotMode(t *testing.T) {
	tests := []struct {
		name         string
		mode         string
		expectedMode domain.AutopilotMode
	}{
		{
			name:         "modo agressivo",
			mode:         "aggressive",
			expectedMode: domain.AutopilotAggressive,
		},
		{
			name:         "modo conservador",
			mode:         "conservative",
			expectedMode: domain.AutopilotConservative,
		},
		{
			name:         "modo desconhecido cai em desligado",
			mode:         "turbo",
			expectedMode: domain.AutopilotOff,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockUserRepo := mocks.NewMockUserRepository(ctrl)
			service := newAuthService(mockUserRepo)

			mockUserRepo.EXPECT().
				GetUserByID(10).
				Return(&domain.User{ID: 10, AutopilotMode: domain.AutopilotStandard}, nil)

			var updated *domain.User
			mockUserRepo.EXPECT().
				UpdateUser(gomock.Any()).
				DoAndReturn(func(user *domain.User) error {
					updated = user
					return nil
				})

			err := service.UpdateAutopilotMode(10, tt.mode)

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedMode, updated.AutopilotMode)
		})
	}
}

func TestUpdateAutopilotModeUserNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := mocks.NewMockUserRepository(ctrl)
	service := newAuthService(mockUserRepo)

	mockUserRepo.EXPECT().GetUserByID(99).Return(nil, nil)

	err := service.UpdateAutopilotMode(99, "standard")

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGenerateStrongPasswordRequiresAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := mocks.NewMockUserRepository(ctrl)
	service := newAuthService(mockUserRepo)

	mockUserRepo.EXPECT().
		GetUserByID(10).
		Return(&domain.User{ID: 10, RoleID: 3}, nil)

	password, err := service.GenerateStrongPassword(10, 20)

	assert.Empty(t, password)
	assert.True(t, errors.Is(err, ErrNoAdminPrivileges))
}
