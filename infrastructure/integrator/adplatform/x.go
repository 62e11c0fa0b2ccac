package adplatform

import (
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/xixoi/ads-autopilot-api/internal/domain"
)

type xPublisher struct{}

// NewXPublisher cria o adapter do X Ads (stub). O X usa OAuth1: além do
// access token, o adapter exige consumer key e consumer secret na credencial.
func NewXPublisher() Publisher {
	return &xPublisher{}
}

// ErrMissingOAuth1Keys indica credencial OAuth1 sem as quatro partes
var ErrMissingOAuth1Keys = errors.New("credencial OAuth1 do X sem consumer key/secret")

func (p *xPublisher) Platform() domain.Platform {
	return domain.PlatformX
}

func (p *xPublisher) PublishCampaign(credential *domain.ResolvedCredential, campaign *domain.Campaign) (*domain.PublishResult, error) {
	if credential.Platform != domain.PlatformX {
		return nil, ErrWrongPlatformCredential
	}

	if credential.AuthScheme == domain.AuthSchemeOAuth1 {
		if credential.ConsumerKey == nil || credential.ConsumerSecret == nil {
			return nil, ErrMissingOAuth1Keys
		}
	}

	logrus.WithFields(logrus.Fields{
		"campaign_id": campaign.ID,
		"platform":    domain.PlatformX,
	}).Info("Publicando campanha no X Ads (stub)")

	return syntheticResult("x_", credential, campaign)
}
