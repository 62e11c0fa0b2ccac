package publishing

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xixoi/ads-autopilot-api/infrastructure/integrator/adplatform"
	"github.com/xixoi/ads-autopilot-api/infrastructure/repository/mocks"
	"github.com/xixoi/ads-autopilot-api/internal/domain"
	"github.com/xixoi/ads-autopilot-api/internal/metrics"
	"github.com/xixoi/ads-autopilot-api/internal/usecases/credentialing"
	"github.com/xixoi/ads-autopilot-api/pkg/secrets"
	"go.uber.org/mock/gomock"
)

const testEncryptionKey = "0123456789abcdef0123456789abcdef"

func stringPtr(s string) *string {
	return &s
}

func newPublishService(t *testing.T, ctrl *gomock.Controller, registry adplatform.Registry) (*Service, *mocks.MockCampaignRepository, *mocks.MockUserRepository, *mocks.MockCredentialRepository, *secrets.Codec) {
	codec, err := secrets.NewCodec(testEncryptionKey)
	assert.NoError(t, err)

	mockCampaignRepo := mocks.NewMockCampaignRepository(ctrl)
	mockUserRepo := mocks.NewMockUserRepository(ctrl)
	mockCredentialRepo := mocks.NewMockCredentialRepository(ctrl)

	service := &Service{
		campaignRepo: mockCampaignRepo,
		userRepo:     mockUserRepo,
		resolver:     credentialing.NewService(mockCredentialRepo, codec),
		registry:     registry,
		metrics:      metrics.Registry("test"),
	}

	return service, mockCampaignRepo, mockUserRepo, mockCredentialRepo, codec
}

func publishableCampaign(userID int) *domain.Campaign {
	return &domain.Campaign{
		ID:          "c4mp01",
		UserID:      userID,
		Name:        "Lançamento de Produto",
		Status:      domain.CampaignStatusActive,
		DailyBudget: 50,
	}
}

func TestPublishWithSystemCredential(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, mockCampaignRepo, mockUserRepo, mockCredentialRepo, codec := newPublishService(t, ctrl, adplatform.NewRegistry())

	mockCampaignRepo.EXPECT().GetCampaignByID("c4mp01").Return(publishableCampaign(10), nil)
	mockUserRepo.EXPECT().GetUserByID(10).Return(&domain.User{
		ID:   10,
		Tier: domain.TierFree,
	}, nil)

	encryptedToken, err := codec.Encrypt("token.do.pool")
	assert.NoError(t, err)

	mockCredentialRepo.EXPECT().
		GetCredential(domain.OwnerTypeSystem, nil, domain.PlatformMeta).
		Return(&domain.Credential{
			OwnerType:   domain.OwnerTypeSystem,
			Platform:    domain.PlatformMeta,
			AuthScheme:  domain.AuthSchemeOAuth2,
			AccessToken: encryptedToken,
			AccountName: stringPtr("xiXoi Master Account"),
			Status:      domain.CredentialStatusConnected,
		}, nil)

	var saved *domain.PublishResult
	mockCampaignRepo.EXPECT().
		SavePublishResult(gomock.Any()).
		DoAndReturn(func(result *domain.PublishResult) error {
			saved = result
			return nil
		})

	result, err := service.Publish(10, "c4mp01", domain.PlatformMeta)

	assert.NoError(t, err)
	assert.Equal(t, "c4mp01", result.CampaignID)
	assert.Equal(t, domain.PlatformMeta, result.Platform)
	assert.Equal(t, "created", result.Status)
	assert.True(t, strings.HasPrefix(result.ExternalID, "act_"))
	assert.Equal(t, "xiXoi Master Account", *result.AccountName)
	assert.Equal(t, result, saved)
}

func TestPublishSelfCustodyWithoutConnectedAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := 10
	service, mockCampaignRepo, mockUserRepo, mockCredentialRepo, _ := newPublishService(t, ctrl, adplatform.NewRegistry())

	mockCampaignRepo.EXPECT().GetCampaignByID("c4mp01").Return(publishableCampaign(userID), nil)
	mockUserRepo.EXPECT().GetUserByID(userID).Return(&domain.User{
		ID:   userID,
		Tier: domain.TierPro,
	}, nil)
	mockCredentialRepo.EXPECT().
		GetCredential(domain.OwnerTypeUser, &userID, domain.PlatformMeta).
		Return(nil, nil)

	// O erro de resolução sobe intacto: nenhum adapter é chamado e nada
	// é persistido
	result, err := service.Publish(userID, "c4mp01", domain.PlatformMeta)

	assert.Nil(t, result)
	assert.True(t, credentialing.IsOAuthRequired(err))

	var credErr *credentialing.CredentialError
	assert.True(t, errors.As(err, &credErr))
	assert.Equal(t, "meta", credErr.Platform)
}

func TestPublishValidations(t *testing.T) {
	tests := []struct {
		name        string
		userID      int
		setup       func(mockCampaignRepo *mocks.MockCampaignRepository, mockUserRepo *mocks.MockUserRepository)
		expectedErr error
	}{
		{
			name:   "campanha inexistente",
			userID: 10,
			setup: func(mockCampaignRepo *mocks.MockCampaignRepository, mockUserRepo *mocks.MockUserRepository) {
				mockCampaignRepo.EXPECT().GetCampaignByID("c4mp01").Return(nil, nil)
			},
			expectedErr: ErrCampaignNotFound,
		},
		{
			name:   "campanha de outro usuário",
			userID: 99,
			setup: func(mockCampaignRepo *mocks.MockCampaignRepository, mockUserRepo *mocks.MockUserRepository) {
				mockCampaignRepo.EXPECT().GetCampaignByID("c4mp01").Return(publishableCampaign(10), nil)
			},
			expectedErr: ErrCampaignNotOwned,
		},
		{
			name:   "usuário do token não existe mais",
			userID: 42,
			setup: func(mockCampaignRepo *mocks.MockCampaignRepository, mockUserRepo *mocks.MockUserRepository) {
				mockCampaignRepo.EXPECT().GetCampaignByID("c4mp01").Return(publishableCampaign(42), nil)
				mockUserRepo.EXPECT().GetUserByID(42).Return(nil, nil)
			},
			expectedErr: ErrUserNotFound,
		},
		{
			name:   "erro de banco ao carregar a campanha",
			userID: 10,
			setup: func(mockCampaignRepo *mocks.MockCampaignRepository, mockUserRepo *mocks.MockUserRepository) {
				mockCampaignRepo.EXPECT().GetCampaignByID("c4mp01").Return(nil, errors.New("connection refused"))
			},
			expectedErr: ErrDatabaseOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service, mockCampaignRepo, mockUserRepo, _, _ := newPublishService(t, ctrl, adplatform.NewRegistry())
			tt.setup(mockCampaignRepo, mockUserRepo)

			result, err := service.Publish(tt.userID, "c4mp01", domain.PlatformMeta)

			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestPublishUnsupportedPlatform(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Registro vazio simula uma plataforma sem adapter
	service, mockCampaignRepo, mockUserRepo, mockCredentialRepo, codec := newPublishService(t, ctrl, adplatform.Registry{})

	mockCampaignRepo.EXPECT().GetCampaignByID("c4mp01").Return(publishableCampaign(10), nil)
	mockUserRepo.EXPECT().GetUserByID(10).Return(&domain.User{ID: 10, Tier: domain.TierFree}, nil)

	encryptedToken, err := codec.Encrypt("token.do.pool")
	assert.NoError(t, err)

	mockCredentialRepo.EXPECT().
		GetCredential(domain.OwnerTypeSystem, nil, domain.PlatformLinkedIn).
		Return(&domain.Credential{
			OwnerType:   domain.OwnerTypeSystem,
			Platform:    domain.PlatformLinkedIn,
			AccessToken: encryptedToken,
			Status:      domain.CredentialStatusConnected,
		}, nil)

	result, err := service.Publish(10, "c4mp01", domain.PlatformLinkedIn)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)
}
