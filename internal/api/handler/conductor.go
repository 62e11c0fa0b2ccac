package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xixoi/ads-autopilot-api/infrastructure/repository"
	"github.com/xixoi/ads-autopilot-api/internal/scheduler"
	"github.com/xixoi/ads-autopilot-api/pkg/apiErrors"
	"github.com/xixoi/ads-autopilot-api/pkg/utils"
)

// RunConductor dispara manualmente um ciclo do conductor. O ciclo roda em
// background; esta rota só enfileira o disparo.
func RunConductor(service *scheduler.ConductorRunService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunConductor")

		if service == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço do conductor não disponível", nil)
			return
		}

		if !service.TriggerManualRun(r.Context()) {
			apiErrors.WriteError(w, apiErrors.ErrConductorBusy, "Ciclo do conductor já em andamento", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"message": "Ciclo do conductor iniciado com sucesso",
		})
	}
}

// GetConductorStatus retorna o status do agendador do conductor
func GetConductorStatus(service *scheduler.ConductorRunService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetConductorStatus")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(service.GetStatus())
	}
}

// ListDecisions lista as entradas do log de auditoria de decisões a partir
// de uma data opcional (?since=YYYY-MM-DD, padrão últimos 7 dias)
func ListDecisions(decisionLogRepo repository.DecisionLogRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - ListDecisions")

		since, err := utils.ParseDate(r.URL.Query().Get("since"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Data inválida, use o formato YYYY-MM-DD", nil)
			return
		}

		if since.IsZero() {
			defaultSince := time.Now().UTC().AddDate(0, 0, -7)
			since = &defaultSince
		}

		entries, err := decisionLogRepo.ListSince(*since)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar log de decisões", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(entries); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
		}
	}
}
