package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/xixoi/ads-autopilot-api/internal/domain"
	"github.com/xixoi/ads-autopilot-api/internal/usecases/credentialing"
	"github.com/xixoi/ads-autopilot-api/pkg/apiErrors"
	"github.com/xixoi/ads-autopilot-api/pkg/middleware"
)

// ListCredentials retorna as credenciais conectadas do usuário logado,
// sempre sem os segredos
func ListCredentials(service credentialing.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		credentials, err := service.ListConnected(userClaims.UserID)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar credenciais", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(credentials); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
		}
	}
}

// ConnectCredential completa o callback de OAuth do usuário logado
func ConnectCredential(service credentialing.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - ConnectCredential")

		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		var req domain.ConnectCredentialRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		if err := service.Connect(userClaims.UserID, &req); err != nil {
			handleCredentialError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{
			"message": "Conta conectada com sucesso",
		})
	}
}

// ProvisionSystemCredential provisiona a credencial compartilhada do pool.
// Rota de operação, restrita a administradores.
func ProvisionSystemCredential(service credentialing.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - ProvisionSystemCredential")

		var req domain.ConnectCredentialRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		if err := service.ProvisionSystem(&req); err != nil {
			handleCredentialError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{
			"message": "Credencial do sistema provisionada com sucesso",
		})
	}
}

// RevokeCredential revoga a credencial do usuário logado para a plataforma
func RevokeCredential(service credentialing.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RevokeCredential")

		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		platformStr := httprouter.ParamsFromContext(r.Context()).ByName("platform")
		platform, err := domain.ParsePlatform(platformStr)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Plataforma inválida", nil)
			return
		}

		if err := service.Revoke(userClaims.UserID, platform); err != nil {
			handleCredentialError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
	}
}

// TestCredential verifica se a credencial do usuário para a plataforma
// resolve e decifra sem erro
func TestCredential(service credentialing.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - TestCredential")

		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		platformStr := httprouter.ParamsFromContext(r.Context()).ByName("platform")
		platform, err := domain.ParsePlatform(platformStr)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Plataforma inválida", nil)
			return
		}

		if err := service.Test(userClaims.UserID, platform, userClaims.UserTier); err != nil {
			handleCredentialError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"platform": platform.String(),
			"status":   "ok",
		})
	}
}

// handleCredentialError traduz erros de credencial para a resposta da API
func handleCredentialError(w http.ResponseWriter, err error) {
	var credErr *credentialing.CredentialError
	if errors.As(err, &credErr) {
		apiErrors.WriteError(w, credErr.Code, credErr.Error(), map[string]any{
			"platform": credErr.Platform,
		})
		return
	}

	logrus.Error(err)
	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao processar credencial", nil)
}
