package adplatform

import (
	"github.com/sirupsen/logrus"
	"github.com/xixoi/ads-autopilot-api/internal/domain"
)

type linkedinPublisher struct{}

// NewLinkedInPublisher cria o adapter do LinkedIn Ads (stub)
func NewLinkedInPublisher() Publisher {
	return &linkedinPublisher{}
}

func (p *linkedinPublisher) Platform() domain.Platform {
	return domain.PlatformLinkedIn
}

func (p *linkedinPublisher) PublishCampaign(credential *domain.ResolvedCredential, campaign *domain.Campaign) (*domain.PublishResult, error) {
	if credential.Platform != domain.PlatformLinkedIn {
		return nil, ErrWrongPlatformCredential
	}

	logrus.WithFields(logrus.Fields{
		"campaign_id": campaign.ID,
		"platform":    domain.PlatformLinkedIn,
	}).Info("Publicando campanha no LinkedIn Ads (stub)")

	return syntheticResult("li_", credential, campaign)
}
