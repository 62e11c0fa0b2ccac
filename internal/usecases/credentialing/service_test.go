package credentialing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xixoi/ads-autopilot-api/infrastructure/repository/mocks"
	"github.com/xixoi/ads-autopilot-api/internal/domain"
	"github.com/xixoi/ads-autopilot-api/pkg/apiErrors"
	"github.com/xixoi/ads-autopilot-api/pkg/secrets"
	"go.uber.org/mock/gomock"
)

const testEncryptionKey = "0123456789abcdef0123456789abcdef"

func newTestCodec(t *testing.T) *secrets.Codec {
	codec, err := secrets.NewCodec(testEncryptionKey)
	assert.NoError(t, err)
	return codec
}

func encrypt(codec *secrets.Codec, plaintext string) string {
	encoded, _ := codec.Encrypt(plaintext)
	return encoded
}

func stringPtr(s string) *string {
	return &s
}

func TestResolveSelfCustody(t *testing.T) {
	userID := 10

	tests := []struct {
		name     string
		tier     domain.Tier
		platform domain.Platform
		setup    func(codec *secrets.Codec, mockCredentialRepo *mocks.MockCredentialRepository)
		validate func(t *testing.T, resolved *domain.ResolvedCredential, err error)
	}{
		{
			name:     "tier pro sem conta conectada recebe ErrOAuthRequired",
			tier:     domain.TierPro,
			platform: domain.PlatformMeta,
			setup: func(codec *secrets.Codec, mockCredentialRepo *mocks.MockCredentialRepository) {
				// Nenhuma consulta ao pool do sistema é esperada: tier
				// self-custody nunca cai na credencial compartilhada,
				// mesmo que ela exista
				mockCredentialRepo.EXPECT().
					GetCredential(domain.OwnerTypeUser, &userID, domain.PlatformMeta).
					Return(nil, nil)
			},
			validate: func(t *testing.T, resolved *domain.ResolvedCredential, err error) {
				assert.Nil(t, resolved)
				assert.True(t, IsOAuthRequired(err))

				var credErr *CredentialError
				assert.True(t, errors.As(err, &credErr))
				assert.Equal(t, apiErrors.ErrOAuthRequired, credErr.Code)
				assert.Equal(t, "meta", credErr.Platform)
				assert.Contains(t, credErr.Details, "meta")
			},
		},
		{
			name:     "tier elite com credencial revogada recebe ErrOAuthRequired",
			tier:     domain.TierElite,
			platform: domain.PlatformGoogle,
			setup: func(codec *secrets.Codec, mockCredentialRepo *mocks.MockCredentialRepository) {
				mockCredentialRepo.EXPECT().
					GetCredential(domain.OwnerTypeUser, &userID, domain.PlatformGoogle).
					Return(&domain.Credential{
						OwnerType:   domain.OwnerTypeUser,
						OwnerID:     &userID,
						Platform:    domain.PlatformGoogle,
						AccessToken: encrypt(codec, "ya29.revogado"),
						Status:      domain.CredentialStatusRevoked,
					}, nil)
			},
			validate: func(t *testing.T, resolved *domain.ResolvedCredential, err error) {
				assert.Nil(t, resolved)
				assert.True(t, IsOAuthRequired(err))
			},
		},
		{
			name:     "tier agency com conta conectada recebe o token decifrado",
			tier:     domain.TierAgency,
			platform: domain.PlatformTikTok,
			setup: func(codec *secrets.Codec, mockCredentialRepo *mocks.MockCredentialRepository) {
				mockCredentialRepo.EXPECT().
					GetCredential(domain.OwnerTypeUser, &userID, domain.PlatformTikTok).
					Return(&domain.Credential{
						OwnerType:   domain.OwnerTypeUser,
						OwnerID:     &userID,
						Platform:    domain.PlatformTikTok,
						AuthScheme:  domain.AuthSchemeOAuth2,
						AccessToken: encrypt(codec, "tt.token.proprio"),
						AccountName: stringPtr("Minha Conta TikTok"),
						Status:      domain.CredentialStatusConnected,
					}, nil)
			},
			validate: func(t *testing.T, resolved *domain.ResolvedCredential, err error) {
				assert.NoError(t, err)
				assert.Equal(t, "tt.token.proprio", resolved.AccessToken)
				assert.Equal(t, domain.PlatformTikTok, resolved.Platform)
				assert.Equal(t, "Minha Conta TikTok", *resolved.AccountName)
			},
		},
		{
			name:     "token adulterado falha com erro de integridade",
			tier:     domain.TierPro,
			platform: domain.PlatformMeta,
			setup: func(codec *secrets.Codec, mockCredentialRepo *mocks.MockCredentialRepository) {
				mockCredentialRepo.EXPECT().
					GetCredential(domain.OwnerTypeUser, &userID, domain.PlatformMeta).
					Return(&domain.Credential{
						OwnerType:   domain.OwnerTypeUser,
						OwnerID:     &userID,
						Platform:    domain.PlatformMeta,
						AccessToken: "bm9uY2Vub25jZW5vbmNl.Y29ycm9tcGlkbw==",
						Status:      domain.CredentialStatusConnected,
					}, nil)
			},
			validate: func(t *testing.T, resolved *domain.ResolvedCredential, err error) {
				assert.Nil(t, resolved)

				var credErr *CredentialError
				assert.True(t, errors.As(err, &credErr))
				assert.Equal(t, apiErrors.ErrCredentialIntegrity, credErr.Code)
				assert.True(t, errors.Is(err, secrets.ErrIntegrity))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			codec := newTestCodec(t)
			mockCredentialRepo := mocks.NewMockCredentialRepository(ctrl)
			tt.setup(codec, mockCredentialRepo)

			service := &Service{
				credentialRepo: mockCredentialRepo,
				codec:          codec,
			}

			resolved, err := service.Resolve(userID, tt.platform, tt.tier)
			tt.validate(t, resolved, err)
		})
	}
}

func TestResolvePooledTiers(t *testing.T) {
	userID := 10

	tests := []struct {
		name     string
		tier     domain.Tier
		setup    func(codec *secrets.Codec, mockCredentialRepo *mocks.MockCredentialRepository)
		validate func(t *testing.T, resolved *domain.ResolvedCredential, err error)
	}{
		{
			name: "tier free usa a credencial do sistema mesmo tendo conta própria",
			tier: domain.TierFree,
			setup: func(codec *secrets.Codec, mockCredentialRepo *mocks.MockCredentialRepository) {
				// A credencial própria do usuário nunca é consultada para
				// tiers do pool
				mockCredentialRepo.EXPECT().
					GetCredential(domain.OwnerTypeSystem, nil, domain.PlatformMeta).
					Return(&domain.Credential{
						OwnerType:   domain.OwnerTypeSystem,
						Platform:    domain.PlatformMeta,
						AuthScheme:  domain.AuthSchemeOAuth2,
						AccessToken: encrypt(codec, "token.do.pool"),
						AccountName: stringPtr("xiXoi Master Account"),
						Status:      domain.CredentialStatusConnected,
					}, nil)
			},
			validate: func(t *testing.T, resolved *domain.ResolvedCredential, err error) {
				assert.NoError(t, err)
				assert.Equal(t, "token.do.pool", resolved.AccessToken)
				assert.Equal(t, "xiXoi Master Account", *resolved.AccountName)
			},
		},
		{
			name: "tier quickstart sem credencial do sistema recebe erro de provisionamento",
			tier: domain.TierQuickstart,
			setup: func(codec *secrets.Codec, mockCredentialRepo *mocks.MockCredentialRepository) {
				mockCredentialRepo.EXPECT().
					GetCredential(domain.OwnerTypeSystem, nil, domain.PlatformMeta).
					Return(nil, nil)
			},
			validate: func(t *testing.T, resolved *domain.ResolvedCredential, err error) {
				assert.Nil(t, resolved)
				assert.True(t, IsConfigurationError(err))

				var credErr *CredentialError
				assert.True(t, errors.As(err, &credErr))
				assert.Equal(t, apiErrors.ErrSystemCredentialMissing, credErr.Code)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			codec := newTestCodec(t)
			mockCredentialRepo := mocks.NewMockCredentialRepository(ctrl)
			tt.setup(codec, mockCredentialRepo)

			service := &Service{
				credentialRepo: mockCredentialRepo,
				codec:          codec,
			}

			resolved, err := service.Resolve(userID, domain.PlatformMeta, tt.tier)
			tt.validate(t, resolved, err)
		})
	}
}

func TestConnect(t *testing.T) {
	userID := 10

	tests := []struct {
		name     string
		req      *domain.ConnectCredentialRequest
		validate func(t *testing.T, codec *secrets.Codec, saved *domain.Credential, err error)
	}{
		{
			name: "credencial oauth2 é cifrada e salva como conectada",
			req: &domain.ConnectCredentialRequest{
				Platform:     "meta",
				AccessToken:  "EAAB.token.claro",
				RefreshToken: stringPtr("EAAB.refresh.claro"),
				AccountName:  stringPtr("Conta do Anunciante"),
			},
			validate: func(t *testing.T, codec *secrets.Codec, saved *domain.Credential, err error) {
				assert.NoError(t, err)
				assert.Equal(t, domain.OwnerTypeUser, saved.OwnerType)
				assert.Equal(t, &userID, saved.OwnerID)
				assert.Equal(t, domain.AuthSchemeOAuth2, saved.AuthScheme)
				assert.Equal(t, domain.CredentialStatusConnected, saved.Status)

				// Nada de texto claro em repouso
				assert.NotEqual(t, "EAAB.token.claro", saved.AccessToken)

				accessToken, decErr := codec.Decrypt(saved.AccessToken)
				assert.NoError(t, decErr)
				assert.Equal(t, "EAAB.token.claro", accessToken)

				refreshToken, decErr := codec.Decrypt(*saved.RefreshToken)
				assert.NoError(t, decErr)
				assert.Equal(t, "EAAB.refresh.claro", refreshToken)
			},
		},
		{
			name: "consumer key e secret promovem o esquema para oauth1",
			req: &domain.ConnectCredentialRequest{
				Platform:       "x",
				AccessToken:    "x.access.token",
				ConsumerKey:    stringPtr("x.consumer.key"),
				ConsumerSecret: stringPtr("x.consumer.secret"),
			},
			validate: func(t *testing.T, codec *secrets.Codec, saved *domain.Credential, err error) {
				assert.NoError(t, err)
				assert.Equal(t, domain.AuthSchemeOAuth1, saved.AuthScheme)

				consumerKey, decErr := codec.Decrypt(*saved.ConsumerKey)
				assert.NoError(t, decErr)
				assert.Equal(t, "x.consumer.key", consumerKey)

				consumerSecret, decErr := codec.Decrypt(*saved.ConsumerSecret)
				assert.NoError(t, decErr)
				assert.Equal(t, "x.consumer.secret", consumerSecret)
			},
		},
		{
			name: "plataforma desconhecida é rejeitada",
			req: &domain.ConnectCredentialRequest{
				Platform:    "myspace",
				AccessToken: "token",
			},
			validate: func(t *testing.T, codec *secrets.Codec, saved *domain.Credential, err error) {
				assert.Nil(t, saved)
				assert.True(t, errors.Is(err, ErrUnknownPlatform))
			},
		},
		{
			name: "access token vazio é rejeitado",
			req: &domain.ConnectCredentialRequest{
				Platform:    "meta",
				AccessToken: "",
			},
			validate: func(t *testing.T, codec *secrets.Codec, saved *domain.Credential, err error) {
				assert.Nil(t, saved)
				assert.True(t, errors.Is(err, ErrMissingSecret))

				var credErr *CredentialError
				assert.True(t, errors.As(err, &credErr))
				assert.Equal(t, apiErrors.ErrMissingRequiredData, credErr.Code)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			codec := newTestCodec(t)
			mockCredentialRepo := mocks.NewMockCredentialRepository(ctrl)

			var saved *domain.Credential
			mockCredentialRepo.EXPECT().
				SaveOrUpdate(gomock.Any()).
				DoAndReturn(func(credential *domain.Credential) error {
					saved = credential
					return nil
				}).
				MaxTimes(1)

			service := &Service{
				credentialRepo: mockCredentialRepo,
				codec:          codec,
			}

			err := service.Connect(userID, tt.req)
			tt.validate(t, codec, saved, err)
		})
	}
}

func TestProvisionSystem(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	codec := newTestCodec(t)
	mockCredentialRepo := mocks.NewMockCredentialRepository(ctrl)

	var saved *domain.Credential
	mockCredentialRepo.EXPECT().
		SaveOrUpdate(gomock.Any()).
		DoAndReturn(func(credential *domain.Credential) error {
			saved = credential
			return nil
		})

	service := &Service{
		credentialRepo: mockCredentialRepo,
		codec:          codec,
	}

	err := service.ProvisionSystem(&domain.ConnectCredentialRequest{
		Platform:    "linkedin",
		AccessToken: "li.token.master",
		AccountName: stringPtr("xiXoi Master Account"),
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.OwnerTypeSystem, saved.OwnerType)
	assert.Nil(t, saved.OwnerID)
	assert.Equal(t, domain.PlatformLinkedIn, saved.Platform)
	assert.Equal(t, "xiXoi Master Account", *saved.AccountName)
}

func TestRevoke(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := 10
	codec := newTestCodec(t)
	mockCredentialRepo := mocks.NewMockCredentialRepository(ctrl)

	mockCredentialRepo.EXPECT().
		UpdateStatus(domain.OwnerTypeUser, &userID, domain.PlatformMeta, domain.CredentialStatusRevoked).
		Return(nil)

	service := &Service{
		credentialRepo: mockCredentialRepo,
		codec:          codec,
	}

	err := service.Revoke(userID, domain.PlatformMeta)
	assert.NoError(t, err)
}

func TestTestCredential(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := 10
	codec := newTestCodec(t)
	mockCredentialRepo := mocks.NewMockCredentialRepository(ctrl)

	service := &Service{
		credentialRepo: mockCredentialRepo,
		codec:          codec,
	}

	mockCredentialRepo.EXPECT().
		GetCredential(domain.OwnerTypeUser, &userID, domain.PlatformMeta).
		Return(&domain.Credential{
			OwnerType:   domain.OwnerTypeUser,
			OwnerID:     &userID,
			Platform:    domain.PlatformMeta,
			AccessToken: encrypt(codec, "token.valido"),
			Status:      domain.CredentialStatusConnected,
		}, nil)

	err := service.Test(userID, domain.PlatformMeta, domain.TierPro)
	assert.NoError(t, err)

	// Sem conta conectada, o teste devolve o mesmo erro que a resolução
	mockCredentialRepo.EXPECT().
		GetCredential(domain.OwnerTypeUser, &userID, domain.PlatformGoogle).
		Return(nil, nil)

	err = service.Test(userID, domain.PlatformGoogle, domain.TierPro)
	assert.True(t, IsOAuthRequired(err))
}

func TestListConnected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := 10
	codec := newTestCodec(t)
	mockCredentialRepo := mocks.NewMockCredentialRepository(ctrl)

	mockCredentialRepo.EXPECT().
		ListByUser(userID).
		Return([]*domain.Credential{
			{
				Platform:    domain.PlatformMeta,
				AccessToken: "cifrado.nunca.exposto",
				AccountName: stringPtr("Conta Meta"),
				Status:      domain.CredentialStatusConnected,
			},
			{
				Platform: domain.PlatformGoogle,
				Status:   domain.CredentialStatusRevoked,
			},
		}, nil)

	service := &Service{
		credentialRepo: mockCredentialRepo,
		codec:          codec,
	}

	responses, err := service.ListConnected(userID)

	assert.NoError(t, err)
	assert.Len(t, responses, 2)
	assert.Equal(t, domain.PlatformMeta, responses[0].Platform)
	assert.Equal(t, domain.CredentialStatusConnected, responses[0].Status)
	assert.Equal(t, domain.CredentialStatusRevoked, responses[1].Status)
}
