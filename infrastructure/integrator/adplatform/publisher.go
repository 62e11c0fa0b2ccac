package adplatform

import (
	"errors"
	"time"

	"github.com/xixoi/ads-autopilot-api/internal/domain"
	"github.com/xixoi/ads-autopilot-api/pkg/utils"
)

// Publisher publica uma campanha em uma plataforma usando a credencial já
// resolvida e decifrada pelo roteador. Os adapters atuais são stubs que
// devolvem IDs sintéticos; o protocolo real de cada plataforma fica atrás
// desta interface.
type Publisher interface {
	Platform() domain.Platform
	PublishCampaign(credential *domain.ResolvedCredential, campaign *domain.Campaign) (*domain.PublishResult, error)
}

// ErrWrongPlatformCredential indica credencial resolvida para outra plataforma
var ErrWrongPlatformCredential = errors.New("credencial não pertence à plataforma do adapter")

// Registry indexa os adapters por plataforma
type Registry map[domain.Platform]Publisher

// NewRegistry monta o registro com todos os adapters suportados
func NewRegistry() Registry {
	publishers := []Publisher{
		NewMetaPublisher(),
		NewGooglePublisher(),
		NewTikTokPublisher(),
		NewLinkedInPublisher(),
		NewXPublisher(),
	}

	registry := make(Registry, len(publishers))
	for _, publisher := range publishers {
		registry[publisher.Platform()] = publisher
	}

	return registry
}

// Get retorna o adapter da plataforma, se houver
func (r Registry) Get(platform domain.Platform) (Publisher, bool) {
	publisher, ok := r[platform]
	return publisher, ok
}

// syntheticResult monta o resultado simulado comum aos stubs
func syntheticResult(prefix string, credential *domain.ResolvedCredential, campaign *domain.Campaign) (*domain.PublishResult, error) {
	externalID, err := utils.GenerateID()
	if err != nil {
		return nil, err
	}

	return &domain.PublishResult{
		CampaignID:  campaign.ID,
		Platform:    credential.Platform,
		ExternalID:  prefix + externalID,
		Status:      "created",
		AccountName: credential.AccountName,
		PublishedAt: time.Now(),
	}, nil
}
