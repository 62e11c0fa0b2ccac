package conducting

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	gatewaydomain "github.com/xixoi/ads-autopilot-api/infrastructure/integrator/llmgateway/domain"
	"github.com/xixoi/ads-autopilot-api/infrastructure/integrator/llmgateway/gatewayclient"
	"github.com/xixoi/ads-autopilot-api/infrastructure/repository"
	"github.com/xixoi/ads-autopilot-api/internal/config"
	"github.com/xixoi/ads-autopilot-api/internal/domain"
	"github.com/xixoi/ads-autopilot-api/internal/metrics"
	"github.com/xixoi/ads-autopilot-api/internal/usecases/costing"
	"github.com/xixoi/ads-autopilot-api/pkg/utils"
)

// Conductor é o ciclo autônomo de otimização. Cada execução é independente
// e sem estado entre ciclos: uma decisão só conhece dois destinos, registrada
// no log de auditoria e, opcionalmente, executada.
type Conductor interface {
	Run(ctx context.Context) (*domain.ConductorRunResult, error)
}

type Service struct {
	campaignRepo    repository.CampaignRepository
	performanceRepo repository.PerformanceRepository
	productRepo     repository.ProductRepository
	decisionLogRepo repository.DecisionLogRepository
	taskRepo        repository.TaskRepository
	userRepo        repository.UserRepository
	costProfiler    costing.Profiler
	gateway         gatewayclient.Client
	cfg             config.Conductor
	metrics         *metrics.Metrics
}

func NewService(
	campaignRepo repository.CampaignRepository,
	performanceRepo repository.PerformanceRepository,
	productRepo repository.ProductRepository,
	decisionLogRepo repository.DecisionLogRepository,
	taskRepo repository.TaskRepository,
	userRepo repository.UserRepository,
	costProfiler costing.Profiler,
	gateway gatewayclient.Client,
	cfg config.Conductor,
	m *metrics.Metrics,
) Conductor {
	return &Service{
		campaignRepo:    campaignRepo,
		performanceRepo: performanceRepo,
		productRepo:     productRepo,
		decisionLogRepo: decisionLogRepo,
		taskRepo:        taskRepo,
		userRepo:        userRepo,
		costProfiler:    costProfiler,
		gateway:         gateway,
		cfg:             cfg,
		metrics:         m,
	}
}

// Run executa um ciclo completo: coleta campanhas ativas e desempenho
// recente, calcula perfis de custo e métricas de lucro por usuário, faz a
// chamada única ao gateway, audita todas as decisões, aplica os gates e
// executa as mutações permitidas. Falha do gateway aborta o ciclo inteiro;
// recusas de gate são não-execuções esperadas.
func (s *Service) Run(ctx context.Context) (*domain.ConductorRunResult, error) {
	runID, err := utils.GenerateID()
	if err != nil {
		return nil, err
	}

	log := logrus.WithField("run_id", runID)
	log.Info("Iniciando ciclo do conductor")

	campaigns, err := s.campaignRepo.ListActiveCampaigns()
	if err != nil {
		s.metrics.ConductorRuns.WithLabelValues("error").Inc()
		log.WithError(err).Error("Erro ao listar campanhas ativas")
		return nil, ErrDatabaseOperation
	}

	if len(campaigns) == 0 {
		log.Info("Nenhuma campanha ativa; ciclo encerrado sem decisões")
		s.metrics.ConductorRuns.WithLabelValues("empty").Inc()
		return &domain.ConductorRunResult{
			Success:         true,
			RunID:           runID,
			ExecutedActions: []string{},
			Summary:         "nenhuma campanha ativa para otimizar",
		}, nil
	}

	users, totalCampaigns, err := s.gatherContexts(campaigns)
	if err != nil {
		s.metrics.ConductorRuns.WithLabelValues("error").Inc()
		return nil, err
	}

	if totalCampaigns == 0 {
		log.Info("Nenhuma campanha com dados recentes de desempenho; ciclo encerrado")
		s.metrics.ConductorRuns.WithLabelValues("empty").Inc()
		return &domain.ConductorRunResult{
			Success:         true,
			RunID:           runID,
			ExecutedActions: []string{},
			Summary:         "nenhuma campanha com desempenho recente",
		}, nil
	}

	document := buildContextDocument(users)

	started := time.Now()
	plan, err := s.gateway.CompleteOptimization(ctx, systemPrompt, document)
	elapsed := time.Since(started).Seconds()
	if err != nil {
		s.metrics.GatewayRequests.WithLabelValues(gatewayStatus(err)).Inc()
		s.metrics.GatewayLatency.WithLabelValues(gatewayStatus(err)).Observe(elapsed)
		s.metrics.ConductorRuns.WithLabelValues("gateway_error").Inc()
		log.WithError(err).Error("Falha na chamada ao gateway de LLM; ciclo abortado")
		return nil, err
	}

	s.metrics.GatewayRequests.WithLabelValues("ok").Inc()
	s.metrics.GatewayLatency.WithLabelValues("ok").Observe(elapsed)

	if plan == nil || (len(plan.Decisions) == 0 && plan.Summary == "") {
		s.metrics.ConductorRuns.WithLabelValues("gateway_error").Inc()
		log.Error("Gateway respondeu com plano vazio; ciclo abortado")
		return nil, ErrEmptyPlan
	}

	logrus.Debugf("Plano de otimização recebido: %s", utils.PrettyJson(plan))

	executed := s.processDecisions(runID, users, plan)

	s.completePendingTasks(log)
	s.chargeRunCost(log, runID, users, totalCampaigns)

	s.metrics.ConductorRuns.WithLabelValues("ok").Inc()
	log.WithFields(logrus.Fields{
		"decisions": len(plan.Decisions),
		"executed":  len(executed),
	}).Info("Ciclo do conductor concluído")

	return &domain.ConductorRunResult{
		Success:         true,
		RunID:           runID,
		DecisionsCount:  len(plan.Decisions),
		ExecutedActions: executed,
		Summary:         plan.Summary,
		ProfitSummary:   plan.ProfitSummary,
	}, nil
}

// gatherContexts agrupa as campanhas ativas por dono e monta, por usuário,
// o perfil de custo, a margem média de produtos e as métricas de lucro das
// campanhas com desempenho recente. Campanhas sem dados na janela ficam de
// fora do ciclo.
func (s *Service) gatherContexts(campaigns []*domain.Campaign) ([]*userContext, int, error) {
	since := time.Now().UTC().AddDate(0, 0, -s.cfg.PerformanceWindowDays)

	byUser := make(map[int][]*domain.Campaign)
	order := make([]int, 0)
	for _, campaign := range campaigns {
		if _, seen := byUser[campaign.UserID]; !seen {
			order = append(order, campaign.UserID)
		}
		byUser[campaign.UserID] = append(byUser[campaign.UserID], campaign)
	}

	users := make([]*userContext, 0, len(order))
	total := 0

	for _, userID := range order {
		user, err := s.userRepo.GetUserByID(userID)
		if err != nil {
			logrus.WithField("user_id", userID).WithError(err).Error("Erro ao carregar usuário do ciclo")
			return nil, 0, ErrDatabaseOperation
		}
		if user == nil {
			continue
		}

		// O perfil de custo é sempre recalculado aqui, nunca reaproveitado
		// de ciclos anteriores
		profile, err := s.costProfiler.ComputeProfile(userID, user.Tier)
		if err != nil {
			return nil, 0, err
		}

		marginPercent, hasProducts, err := s.productRepo.AverageMarginPercent(userID)
		if err != nil {
			logrus.WithField("user_id", userID).WithError(err).Error("Erro ao calcular margem média de produtos")
			return nil, 0, ErrDatabaseOperation
		}
		if !hasProducts {
			marginPercent = s.cfg.FallbackMarginPercent
		}

		uc := &userContext{
			user:          user,
			profile:       profile,
			marginPercent: marginPercent,
		}

		for _, campaign := range byUser[userID] {
			snapshot, err := s.performanceRepo.GetSnapshot(campaign.ID, since)
			if err != nil {
				logrus.WithField("campaign_id", campaign.ID).WithError(err).Error("Erro ao agregar desempenho da campanha")
				return nil, 0, ErrDatabaseOperation
			}
			if snapshot == nil {
				continue
			}

			uc.campaigns = append(uc.campaigns, &campaignContext{
				campaign: campaign,
				snapshot: snapshot,
				profit:   deriveProfitMetrics(snapshot, marginPercent, s.cfg.FallbackBreakEvenROAS),
			})
		}

		if len(uc.campaigns) > 0 {
			users = append(users, uc)
			total += len(uc.campaigns)
		}
	}

	return users, total, nil
}

// processDecisions audita cada decisão retornada, aplica os gates e executa
// as mutações permitidas. A inserção no log de auditoria sempre acontece
// antes de qualquer tentativa de execução, então uma execução nunca fica
// sem auditoria.
func (s *Service) processDecisions(runID string, users []*userContext, plan *gatewaydomain.OptimizationPlan) []string {
	index := indexCampaigns(users)
	executed := make([]string, 0)

	for _, decision := range plan.Decisions {
		s.metrics.DecisionsProposed.WithLabelValues(string(decision.Kind)).Inc()

		log := logrus.WithFields(logrus.Fields{
			"run_id":      runID,
			"campaign_id": decision.CampaignID,
			"kind":        decision.Kind,
			"confidence":  decision.Confidence,
		})

		cc, uc := index[decision.CampaignID], ownerOf(users, decision.CampaignID)
		verdict := gateVerdict{gate: gateNotExecutable}
		if cc != nil && uc != nil {
			verdict = evaluateGates(gateInput{
				decision:       decision,
				campaign:       cc.campaign,
				profile:        uc.profile,
				mode:           uc.user.AutopilotMode,
				profit:         cc.profit,
				minDailyBudget: s.cfg.MinDailyBudgetUSD,
				minRecommended: s.cfg.MinRecommendedBudget,
				maxRecommended: s.cfg.MaxRecommendedBudget,
			})
		} else {
			log.Warn("Decisão referencia campanha fora do ciclo; registrada como consultiva")
		}

		entry, err := s.auditDecision(runID, uc, decision, verdict)
		if err != nil {
			log.WithError(err).Error("Erro ao auditar decisão; execução suprimida")
			continue
		}

		if !verdict.allowed {
			if verdict.blockedEvent != nil {
				log.WithField("blocked_event", *verdict.blockedEvent).Warn("Execução automática barrada por margem de custo")
			}
			if verdict.gate != "" {
				s.metrics.DecisionsBlocked.WithLabelValues(verdict.gate).Inc()
			}
			continue
		}

		if err := s.executeDecision(cc.campaign, decision, verdict); err != nil {
			log.WithError(err).Error("Erro ao executar mutação da decisão")
			s.metrics.Errors.WithLabelValues("conductor_execute").Inc()
			continue
		}

		if err := s.decisionLogRepo.MarkExecuted(entry.ID, verdict.appliedValue); err != nil {
			log.WithError(err).Error("Erro ao marcar decisão como executada no log de auditoria")
		}

		s.metrics.DecisionsExecuted.WithLabelValues(string(decision.Kind)).Inc()
		executed = append(executed, describeExecution(decision, verdict))
		log.Info("Decisão executada automaticamente")
	}

	return executed
}

// auditDecision persiste a linha de auditoria da decisão, executada ou não
func (s *Service) auditDecision(runID string, uc *userContext, decision domain.Decision, verdict gateVerdict) (*domain.DecisionLogEntry, error) {
	id, err := utils.GenerateID()
	if err != nil {
		return nil, err
	}

	userID := 0
	if uc != nil {
		userID = uc.user.ID
	}

	entry := &domain.DecisionLogEntry{
		ID:               id,
		RunID:            runID,
		UserID:           userID,
		CampaignID:       decision.CampaignID,
		Kind:             decision.Kind,
		Confidence:       decision.Confidence,
		AutoExecute:      decision.AutoExecute,
		Reason:           decision.Reason,
		RecommendedValue: decision.RecommendedValue,
		Executed:         false,
		BlockedEvent:     verdict.blockedEvent,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.decisionLogRepo.Insert(entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// executeDecision aplica a mutação permitida. Mutações são atômicas por
// decisão: uma falha aqui deixa a campanha intocada e a decisão não
// executada.
func (s *Service) executeDecision(campaign *domain.Campaign, decision domain.Decision, verdict gateVerdict) error {
	switch decision.Kind {
	case domain.DecisionBudgetIncrease, domain.DecisionBudgetDecrease:
		return s.campaignRepo.UpdateDailyBudget(campaign.ID, *verdict.appliedValue)
	case domain.DecisionPauseCampaign:
		reason := decision.Reason
		if reason == "" {
			reason = "pausada pelo otimizador automático"
		}
		return s.campaignRepo.PauseCampaign(campaign.ID, reason, time.Now().UTC())
	case domain.DecisionResumeCampaign:
		return s.campaignRepo.ResumeCampaign(campaign.ID)
	}
	return nil
}

// completePendingTasks marca como concluídas as tarefas agendadas que este
// ciclo consumiu
func (s *Service) completePendingTasks(log *logrus.Entry) {
	tasks, err := s.taskRepo.ListPending(domain.AutomationTaskKindConductor)
	if err != nil {
		log.WithError(err).Error("Erro ao listar tarefas pendentes do conductor")
		return
	}

	now := time.Now().UTC()
	for _, task := range tasks {
		if err := s.taskRepo.MarkCompleted(task.ID, now); err != nil {
			log.WithField("task_id", task.ID).WithError(err).Error("Erro ao concluir tarefa do conductor")
		}
	}
}

// chargeRunCost reparte o custo estimado de IA do ciclo entre os usuários
// envolvidos, proporcionalmente ao número de campanhas de cada um, e
// registra no ledger de uso
func (s *Service) chargeRunCost(log *logrus.Entry, runID string, users []*userContext, totalCampaigns int) {
	if s.cfg.EstimatedRunCostUSD <= 0 || totalCampaigns == 0 {
		return
	}

	for _, uc := range users {
		share := s.cfg.EstimatedRunCostUSD * float64(len(uc.campaigns)) / float64(totalCampaigns)
		if err := s.costProfiler.RecordUsage(uc.user.ID, &runID, share, 0); err != nil {
			log.WithField("user_id", uc.user.ID).WithError(err).Error("Erro ao registrar custo do ciclo no ledger")
		}
	}
}

func indexCampaigns(users []*userContext) map[string]*campaignContext {
	index := make(map[string]*campaignContext)
	for _, uc := range users {
		for _, cc := range uc.campaigns {
			index[cc.campaign.ID] = cc
		}
	}
	return index
}

func ownerOf(users []*userContext, campaignID string) *userContext {
	for _, uc := range users {
		for _, cc := range uc.campaigns {
			if cc.campaign.ID == campaignID {
				return uc
			}
		}
	}
	return nil
}

func describeExecution(decision domain.Decision, verdict gateVerdict) string {
	if verdict.appliedValue != nil {
		return fmt.Sprintf("%s %s -> %.2f", decision.Kind, decision.CampaignID, *verdict.appliedValue)
	}
	return fmt.Sprintf("%s %s", decision.Kind, decision.CampaignID)
}

func gatewayStatus(err error) string {
	switch {
	case gatewaydomain.IsRateLimited(err):
		return "rate_limited"
	case gatewaydomain.IsCreditsExhausted(err):
		return "credits_exhausted"
	default:
		return "error"
	}
}
