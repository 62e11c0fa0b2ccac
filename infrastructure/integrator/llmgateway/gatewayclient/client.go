package gatewayclient

import (
	"context"
	"net/http"
	"time"

	gatewaydomain "github.com/xixoi/ads-autopilot-api/infrastructure/integrator/llmgateway/domain"
	"github.com/xixoi/ads-autopilot-api/internal/config"
)

// Client é o contrato do gateway de LLM consumido pelo conductor.
// O gateway é uma caixa-preta: recebe system prompt, user prompt e o nome de
// um schema de saída estruturada, e devolve o objeto parseado ou uma falha
// tipada.
type Client interface {
	CompleteOptimization(ctx context.Context, systemPrompt, userPrompt string) (*gatewaydomain.OptimizationPlan, error)
}

type GatewayClient struct {
	Cfg        *config.Config
	httpClient *http.Client
}

func NewClient(cfg *config.Config) Client {
	timeout := time.Duration(cfg.LLMGateway.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &GatewayClient{
		Cfg: cfg,
		// Timeout do client mapeia para o mesmo caminho de falha de um erro
		// do gateway: a execução inteira do ciclo aborta
		httpClient: &http.Client{Timeout: timeout},
	}
}
