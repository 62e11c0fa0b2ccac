package adplatform

import (
	"github.com/sirupsen/logrus"
	"github.com/xixoi/ads-autopilot-api/internal/domain"
)

type googlePublisher struct{}

// NewGooglePublisher cria o adapter do Google Ads (stub)
func NewGooglePublisher() Publisher {
	return &googlePublisher{}
}

func (p *googlePublisher) Platform() domain.Platform {
	return domain.PlatformGoogle
}

func (p *googlePublisher) PublishCampaign(credential *domain.ResolvedCredential, campaign *domain.Campaign) (*domain.PublishResult, error) {
	if credential.Platform != domain.PlatformGoogle {
		return nil, ErrWrongPlatformCredential
	}

	logrus.WithFields(logrus.Fields{
		"campaign_id": campaign.ID,
		"platform":    domain.PlatformGoogle,
	}).Info("Publicando campanha no Google Ads (stub)")

	return syntheticResult("gads_", credential, campaign)
}
