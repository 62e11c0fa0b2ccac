package credentialing

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xixoi/ads-autopilot-api/infrastructure/repository"
	"github.com/xixoi/ads-autopilot-api/internal/domain"
	"github.com/xixoi/ads-autopilot-api/pkg/apiErrors"
	"github.com/xixoi/ads-autopilot-api/pkg/secrets"
	"github.com/xixoi/ads-autopilot-api/pkg/utils"
)

// Resolver roteia e decifra credenciais de plataforma.
// Esta é a fronteira de confiança central do produto: tiers self-custody
// nunca consomem o pool do sistema, e tiers baixos nunca enxergam o nome
// da credencial compartilhada.
type Resolver interface {
	Resolve(userID int, platform domain.Platform, tier domain.Tier) (*domain.ResolvedCredential, error)
	Connect(userID int, req *domain.ConnectCredentialRequest) error
	ProvisionSystem(req *domain.ConnectCredentialRequest) error
	Revoke(userID int, platform domain.Platform) error
	ListConnected(userID int) ([]*domain.CredentialResponse, error)
	Test(userID int, platform domain.Platform, tier domain.Tier) error
}

type Service struct {
	credentialRepo repository.CredentialRepository
	codec          *secrets.Codec
}

func NewService(credentialRepo repository.CredentialRepository, codec *secrets.Codec) Resolver {
	return &Service{
		credentialRepo: credentialRepo,
		codec:          codec,
	}
}

// Resolve seleciona deterministicamente a credencial que o chamador deve
// usar e a devolve decifrada. A política é fixa:
//  1. Tier self-custody (pro/elite/agency): exige credencial conectada do
//     próprio usuário; sem ela, ErrOAuthRequired. Nunca cai no pool.
//  2. Demais tiers: credencial do sistema; sem ela, ErrSystemCredentialMissing.
func (s *Service) Resolve(userID int, platform domain.Platform, tier domain.Tier) (*domain.ResolvedCredential, error) {
	if tier.IsSelfCustody() {
		credential, err := s.credentialRepo.GetCredential(domain.OwnerTypeUser, &userID, platform)
		if err != nil {
			return nil, NewCredentialError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, platform.String(), err.Error())
		}

		if credential == nil || credential.Status != domain.CredentialStatusConnected {
			logrus.WithFields(logrus.Fields{
				"user_id":  userID,
				"platform": platform,
				"tier":     tier,
			}).Info("Usuário self-custody sem conta conectada")

			return nil, NewCredentialError(
				ErrOAuthRequired,
				apiErrors.ErrOAuthRequired,
				platform.String(),
				fmt.Sprintf("conecte sua conta %s para publicar anúncios", platform),
			)
		}

		return s.decryptCredential(credential)
	}

	credential, err := s.credentialRepo.GetCredential(domain.OwnerTypeSystem, nil, platform)
	if err != nil {
		return nil, NewCredentialError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, platform.String(), err.Error())
	}

	if credential == nil || credential.Status != domain.CredentialStatusConnected {
		logrus.WithField("platform", platform).Error("Credencial do sistema não provisionada")

		return nil, NewCredentialError(
			ErrSystemCredentialMissing,
			apiErrors.ErrSystemCredentialMissing,
			platform.String(),
			"credencial do pool do sistema ausente",
		)
	}

	return s.decryptCredential(credential)
}

// decryptCredential decifra os segredos antes de entregar ao chamador.
// A forma cifrada nunca sai desta camada.
func (s *Service) decryptCredential(credential *domain.Credential) (*domain.ResolvedCredential, error) {
	accessToken, err := s.codec.Decrypt(credential.AccessToken)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"platform":   credential.Platform,
			"owner_type": credential.OwnerType,
		}).WithError(err).Error("Falha de integridade ao decifrar access token")
		return nil, NewCredentialError(err, apiErrors.ErrCredentialIntegrity, credential.Platform.String(), "access token")
	}

	resolved := &domain.ResolvedCredential{
		Platform:          credential.Platform,
		AuthScheme:        credential.AuthScheme,
		AccessToken:       accessToken,
		PlatformAccountID: credential.PlatformAccountID,
		AccountName:       credential.AccountName,
	}

	if credential.RefreshToken != nil {
		refreshToken, err := s.codec.Decrypt(*credential.RefreshToken)
		if err != nil {
			return nil, NewCredentialError(err, apiErrors.ErrCredentialIntegrity, credential.Platform.String(), "refresh token")
		}
		resolved.RefreshToken = &refreshToken
	}

	if credential.ConsumerKey != nil {
		consumerKey, err := s.codec.Decrypt(*credential.ConsumerKey)
		if err != nil {
			return nil, NewCredentialError(err, apiErrors.ErrCredentialIntegrity, credential.Platform.String(), "consumer key")
		}
		resolved.ConsumerKey = &consumerKey
	}

	if credential.ConsumerSecret != nil {
		consumerSecret, err := s.codec.Decrypt(*credential.ConsumerSecret)
		if err != nil {
			return nil, NewCredentialError(err, apiErrors.ErrCredentialIntegrity, credential.Platform.String(), "consumer secret")
		}
		resolved.ConsumerSecret = &consumerSecret
	}

	return resolved, nil
}

// Connect completa o callback de OAuth do usuário: valida, cifra e faz o
// upsert da credencial como conectada
func (s *Service) Connect(userID int, req *domain.ConnectCredentialRequest) error {
	credential, err := s.buildCredential(req)
	if err != nil {
		return err
	}

	credential.OwnerType = domain.OwnerTypeUser
	credential.OwnerID = &userID

	if err := s.credentialRepo.SaveOrUpdate(credential); err != nil {
		return NewCredentialError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, req.Platform, err.Error())
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  userID,
		"platform": credential.Platform,
	}).Info("Credencial do usuário conectada")

	return nil
}

// ProvisionSystem provisiona a credencial compartilhada do pool (operador)
func (s *Service) ProvisionSystem(req *domain.ConnectCredentialRequest) error {
	credential, err := s.buildCredential(req)
	if err != nil {
		return err
	}

	credential.OwnerType = domain.OwnerTypeSystem
	credential.OwnerID = nil

	if err := s.credentialRepo.SaveOrUpdate(credential); err != nil {
		return NewCredentialError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, req.Platform, err.Error())
	}

	logrus.WithField("platform", credential.Platform).Info("Credencial do sistema provisionada")

	return nil
}

// buildCredential valida o request e monta o registro com segredos cifrados
func (s *Service) buildCredential(req *domain.ConnectCredentialRequest) (*domain.Credential, error) {
	platform, err := domain.ParsePlatform(req.Platform)
	if err != nil {
		return nil, NewCredentialError(ErrUnknownPlatform, apiErrors.ErrInvalidRequest, req.Platform, err.Error())
	}

	if req.AccessToken == "" {
		return nil, NewCredentialError(ErrMissingSecret, apiErrors.ErrMissingRequiredData, req.Platform, "access token vazio")
	}

	id, err := utils.GenerateID()
	if err != nil {
		return nil, err
	}

	encryptedAccess, err := s.codec.Encrypt(req.AccessToken)
	if err != nil {
		return nil, err
	}

	credential := &domain.Credential{
		ID:                id,
		Platform:          platform,
		AuthScheme:        domain.AuthSchemeOAuth2,
		AccessToken:       encryptedAccess,
		PlatformAccountID: req.PlatformAccountID,
		AccountName:       req.AccountName,
		Status:            domain.CredentialStatusConnected,
	}

	if req.RefreshToken != nil && *req.RefreshToken != "" {
		encryptedRefresh, err := s.codec.Encrypt(*req.RefreshToken)
		if err != nil {
			return nil, err
		}
		credential.RefreshToken = &encryptedRefresh
	}

	// Credencial OAuth1 (X) carrega as quatro partes em campos próprios,
	// nunca empacotadas em um único campo com delimitador
	if req.ConsumerKey != nil && req.ConsumerSecret != nil {
		credential.AuthScheme = domain.AuthSchemeOAuth1

		encryptedKey, err := s.codec.Encrypt(*req.ConsumerKey)
		if err != nil {
			return nil, err
		}
		encryptedSecret, err := s.codec.Encrypt(*req.ConsumerSecret)
		if err != nil {
			return nil, err
		}

		credential.ConsumerKey = &encryptedKey
		credential.ConsumerSecret = &encryptedSecret
	}

	if req.ExpiresInSeconds != nil {
		expiresAt := time.Now().Add(time.Duration(*req.ExpiresInSeconds) * time.Second)
		credential.ExpiresAt = &expiresAt
	}

	return credential, nil
}

// Revoke marca a credencial do usuário como revogada. Os segredos não são
// apagados; rotação substitui os valores, revogação só muda o status.
func (s *Service) Revoke(userID int, platform domain.Platform) error {
	err := s.credentialRepo.UpdateStatus(domain.OwnerTypeUser, &userID, platform, domain.CredentialStatusRevoked)
	if err != nil {
		return NewCredentialError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, platform.String(), err.Error())
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  userID,
		"platform": platform,
	}).Info("Credencial do usuário revogada")

	return nil
}

// Test verifica se a credencial que o usuário usaria para a plataforma
// resolve e decifra corretamente. Não chama a plataforma: a validação de
// rede fica no protocolo de cada adapter.
func (s *Service) Test(userID int, platform domain.Platform, tier domain.Tier) error {
	if _, err := s.Resolve(userID, platform, tier); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  userID,
		"platform": platform,
	}).Info("Credencial resolvida e decifrada com sucesso")

	return nil
}

// ListConnected retorna a visão pública das credenciais do usuário
func (s *Service) ListConnected(userID int) ([]*domain.CredentialResponse, error) {
	credentials, err := s.credentialRepo.ListByUser(userID)
	if err != nil {
		return nil, NewCredentialError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "", err.Error())
	}

	responses := make([]*domain.CredentialResponse, 0, len(credentials))
	for _, credential := range credentials {
		responses = append(responses, &domain.CredentialResponse{
			Platform:          credential.Platform,
			Status:            credential.Status,
			PlatformAccountID: credential.PlatformAccountID,
			AccountName:       credential.AccountName,
			ExpiresAt:         credential.ExpiresAt,
		})
	}

	return responses, nil
}
