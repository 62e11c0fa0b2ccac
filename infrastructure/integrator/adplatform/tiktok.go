package adplatform

import (
	"github.com/sirupsen/logrus"
	"github.com/xixoi/ads-autopilot-api/internal/domain"
)

type tiktokPublisher struct{}

// NewTikTokPublisher cria o adapter do TikTok Ads (stub)
func NewTikTokPublisher() Publisher {
	return &tiktokPublisher{}
}

func (p *tiktokPublisher) Platform() domain.Platform {
	return domain.PlatformTikTok
}

func (p *tiktokPublisher) PublishCampaign(credential *domain.ResolvedCredential, campaign *domain.Campaign) (*domain.PublishResult, error) {
	if credential.Platform != domain.PlatformTikTok {
		return nil, ErrWrongPlatformCredential
	}

	logrus.WithFields(logrus.Fields{
		"campaign_id": campaign.ID,
		"platform":    domain.PlatformTikTok,
	}).Info("Publicando campanha no TikTok Ads (stub)")

	return syntheticResult("tt_", credential, campaign)
}
