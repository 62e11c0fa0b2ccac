package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/xixoi/ads-autopilot-api/infrastructure/repository"
	"github.com/xixoi/ads-autopilot-api/internal/domain"
	"github.com/xixoi/ads-autopilot-api/internal/usecases/credentialing"
	"github.com/xixoi/ads-autopilot-api/internal/usecases/publishing"
	"github.com/xixoi/ads-autopilot-api/pkg/apiErrors"
	"github.com/xixoi/ads-autopilot-api/pkg/middleware"
)

// ListCampaigns retorna as campanhas do usuário logado
func ListCampaigns(campaignRepo repository.CampaignRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		campaigns, err := campaignRepo.ListCampaignsByUser(userClaims.UserID)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar campanhas", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(campaigns); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
		}
	}
}

// PublishCampaign publica a campanha na plataforma indicada usando a
// credencial resolvida para o tier do usuário
func PublishCampaign(service publishing.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - PublishCampaign")

		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		params := httprouter.ParamsFromContext(r.Context())
		campaignID := params.ByName("id")
		if campaignID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da campanha não fornecido", nil)
			return
		}

		platform, err := domain.ParsePlatform(params.ByName("platform"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Plataforma inválida", nil)
			return
		}

		result, err := service.Publish(userClaims.UserID, campaignID, platform)
		if err != nil {
			handlePublishError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logrus.Error(err)
		}
	}
}

// handlePublishError traduz erros de publicação para a resposta da API.
// Erros de resolução de credencial sobem com o próprio código; um tier
// self-custody sem conta conectada vira orientação de conexão, nunca
// fallback silencioso.
func handlePublishError(w http.ResponseWriter, err error) {
	var credErr *credentialing.CredentialError
	if errors.As(err, &credErr) {
		apiErrors.WriteError(w, credErr.Code, credErr.Error(), map[string]any{
			"platform": credErr.Platform,
		})
		return
	}

	switch {
	case errors.Is(err, publishing.ErrCampaignNotFound):
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Campanha não encontrada", nil)
	case errors.Is(err, publishing.ErrCampaignNotOwned):
		apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Campanha não pertence ao usuário", nil)
	case errors.Is(err, publishing.ErrUnsupportedPlatform):
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Plataforma sem adapter de publicação", nil)
	default:
		logrus.Error(err)
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao publicar campanha", nil)
	}
}

// UpdateCampaignAutomationRequest liga/desliga as chaves de automação da campanha
type UpdateCampaignAutomationRequest struct {
	AutoPauseEnabled  *bool `json:"auto_pause_enabled"`
	AutoBudgetEnabled *bool `json:"auto_budget_enabled"`
}

// UpdateCampaignAutomation altera as chaves de automação de uma campanha
// do usuário logado
func UpdateCampaignAutomation(campaignRepo repository.CampaignRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - UpdateCampaignAutomation")

		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		campaignID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if campaignID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da campanha não fornecido", nil)
			return
		}

		campaign, err := campaignRepo.GetCampaignByID(campaignID)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar campanha", nil)
			return
		}
		if campaign == nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Campanha não encontrada", nil)
			return
		}
		if campaign.UserID != userClaims.UserID {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Campanha não pertence ao usuário", nil)
			return
		}

		var req UpdateCampaignAutomationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		if req.AutoPauseEnabled != nil {
			campaign.AutoPauseEnabled = *req.AutoPauseEnabled
		}
		if req.AutoBudgetEnabled != nil {
			campaign.AutoBudgetEnabled = *req.AutoBudgetEnabled
		}

		if err := campaignRepo.UpdateAutomationSettings(campaign.ID, campaign.AutoPauseEnabled, campaign.AutoBudgetEnabled); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao atualizar campanha", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(campaign)
	}
}
