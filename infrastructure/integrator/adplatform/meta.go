package adplatform

import (
	"github.com/sirupsen/logrus"
	"github.com/xixoi/ads-autopilot-api/internal/domain"
)

type metaPublisher struct{}

// NewMetaPublisher cria o adapter da Meta Marketing API (stub)
func NewMetaPublisher() Publisher {
	return &metaPublisher{}
}

func (p *metaPublisher) Platform() domain.Platform {
	return domain.PlatformMeta
}

func (p *metaPublisher) PublishCampaign(credential *domain.ResolvedCredential, campaign *domain.Campaign) (*domain.PublishResult, error) {
	if credential.Platform != domain.PlatformMeta {
		return nil, ErrWrongPlatformCredential
	}

	logrus.WithFields(logrus.Fields{
		"campaign_id": campaign.ID,
		"platform":    domain.PlatformMeta,
	}).Info("Publicando campanha na Meta (stub)")

	return syntheticResult("act_", credential, campaign)
}
