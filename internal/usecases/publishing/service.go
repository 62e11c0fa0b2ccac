package publishing

import (
	"github.com/sirupsen/logrus"
	"github.com/xixoi/ads-autopilot-api/infrastructure/integrator/adplatform"
	"github.com/xixoi/ads-autopilot-api/infrastructure/repository"
	"github.com/xixoi/ads-autopilot-api/internal/domain"
	"github.com/xixoi/ads-autopilot-api/internal/metrics"
	"github.com/xixoi/ads-autopilot-api/internal/usecases/credentialing"
)

// Publisher publica campanhas nas plataformas de anúncio. A resolução da
// credencial acontece antes de qualquer chamada de adapter; erros de
// resolução sobem intactos para o chamador, sem tentar outra credencial.
type Publisher interface {
	Publish(userID int, campaignID string, platform domain.Platform) (*domain.PublishResult, error)
}

type Service struct {
	campaignRepo repository.CampaignRepository
	userRepo     repository.UserRepository
	resolver     credentialing.Resolver
	registry     adplatform.Registry
	metrics      *metrics.Metrics
}

func NewService(
	campaignRepo repository.CampaignRepository,
	userRepo repository.UserRepository,
	resolver credentialing.Resolver,
	registry adplatform.Registry,
	m *metrics.Metrics,
) Publisher {
	return &Service{
		campaignRepo: campaignRepo,
		userRepo:     userRepo,
		resolver:     resolver,
		registry:     registry,
		metrics:      m,
	}
}

func (s *Service) Publish(userID int, campaignID string, platform domain.Platform) (*domain.PublishResult, error) {
	campaign, err := s.campaignRepo.GetCampaignByID(campaignID)
	if err != nil {
		return nil, ErrDatabaseOperation
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}
	if campaign.UserID != userID {
		return nil, ErrCampaignNotOwned
	}

	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, ErrDatabaseOperation
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	credential, err := s.resolver.Resolve(userID, platform, user.Tier)
	if err != nil {
		s.metrics.CampaignPublishes.WithLabelValues(platform.String(), "credential_error").Inc()
		return nil, err
	}

	publisher, ok := s.registry.Get(platform)
	if !ok {
		return nil, ErrUnsupportedPlatform
	}

	result, err := publisher.PublishCampaign(credential, campaign)
	if err != nil {
		s.metrics.CampaignPublishes.WithLabelValues(platform.String(), "error").Inc()
		logrus.WithFields(logrus.Fields{
			"campaign_id": campaignID,
			"platform":    platform,
		}).WithError(err).Error("Erro ao publicar campanha na plataforma")
		return nil, err
	}

	if err := s.campaignRepo.SavePublishResult(result); err != nil {
		logrus.WithField("campaign_id", campaignID).WithError(err).Error("Erro ao persistir resultado de publicação")
		return nil, ErrDatabaseOperation
	}

	s.metrics.CampaignPublishes.WithLabelValues(platform.String(), "ok").Inc()

	return result, nil
}
