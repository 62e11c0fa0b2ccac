package gatewayclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	gatewaydomain "github.com/xixoi/ads-autopilot-api/infrastructure/integrator/llmgateway/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CompleteOptimization envia o documento de contexto ao gateway pedindo o
// plano de otimização estruturado. Qualquer falha (HTTP, parse, timeout)
// retorna um GatewayError tipado; não existe execução parcial.
func (c *GatewayClient) CompleteOptimization(ctx context.Context, systemPrompt, userPrompt string) (*gatewaydomain.OptimizationPlan, error) {
	request := gatewaydomain.CompletionRequest{
		Model:        c.Cfg.LLMGateway.Model,
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		SchemaName:   gatewaydomain.SchemaOptimizationPlan,
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, &gatewaydomain.GatewayError{
			Kind:    gatewaydomain.GatewayErrorOther,
			Message: fmt.Sprintf("erro ao serializar requisição: %v", err),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Cfg.LLMGateway.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, &gatewaydomain.GatewayError{
			Kind:    gatewaydomain.GatewayErrorOther,
			Message: fmt.Sprintf("erro ao criar a requisição: %v", err),
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Cfg.LLMGateway.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logrus.WithError(err).Error("Erro ao chamar o gateway de LLM")
		return nil, &gatewaydomain.GatewayError{
			Kind:    gatewaydomain.GatewayErrorOther,
			Message: err.Error(),
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &gatewaydomain.GatewayError{
			Kind:    gatewaydomain.GatewayErrorOther,
			Message: fmt.Sprintf("erro ao ler a resposta: %v", err),
		}
	}

	if resp.StatusCode != http.StatusOK {
		logrus.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
		}).Error("Gateway de LLM retornou status de erro")
		return nil, gatewaydomain.NewGatewayError(resp.StatusCode, string(body))
	}

	var plan gatewaydomain.OptimizationPlan
	if err := json.Unmarshal(body, &plan); err != nil {
		logrus.WithError(err).Error("Erro ao decodificar o plano de otimização do gateway")
		return nil, &gatewaydomain.GatewayError{
			Kind:    gatewaydomain.GatewayErrorOther,
			Message: fmt.Sprintf("resposta não corresponde ao schema %s: %v", gatewaydomain.SchemaOptimizationPlan, err),
		}
	}

	return &plan, nil
}
