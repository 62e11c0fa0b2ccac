package costing

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xixoi/ads-autopilot-api/infrastructure/repository"
	"github.com/xixoi/ads-autopilot-api/internal/config"
	"github.com/xixoi/ads-autopilot-api/internal/domain"
	"github.com/xixoi/ads-autopilot-api/pkg/utils"
)

// Profiler calcula o perfil de custo do usuário e registra consumo no ledger
type Profiler interface {
	ComputeProfile(userID int, tier domain.Tier) (*domain.CostProfile, error)
	RecordUsage(userID int, runID *string, llmCost, infraCost float64) error
}

type Service struct {
	usageRepo repository.UsageRepository
	ceilings  config.CostCeilings
}

func NewService(usageRepo repository.UsageRepository, ceilings config.CostCeilings) Profiler {
	return &Service{
		usageRepo: usageRepo,
		ceilings:  ceilings,
	}
}

// ComputeProfile monta a visão pontual do gasto do mês corrente contra o
// teto do tier. Sempre recalculado a partir do ledger; nunca memoizado.
func (s *Service) ComputeProfile(userID int, tier domain.Tier) (*domain.CostProfile, error) {
	monthStart := monthStart(time.Now().UTC())

	usage, err := s.usageRepo.SumSince(userID, monthStart)
	if err != nil {
		logrus.WithField("user_id", userID).WithError(err).Error("Erro ao somar ledger de uso")
		return nil, ErrDatabaseOperation
	}

	tierLimit := s.ceilings.ForTier(tier)
	totalCost := usage.LLMCost + usage.InfraCost
	marginRemaining := tierLimit - totalCost

	marginPercentage := 0.0
	if tierLimit > 0 {
		marginPercentage = marginRemaining / tierLimit
	}

	return &domain.CostProfile{
		UserID:           userID,
		Tier:             tier,
		TierLimit:        tierLimit,
		LLMCost:          usage.LLMCost,
		InfraCost:        usage.InfraCost,
		TotalCost:        totalCost,
		MarginRemaining:  marginRemaining,
		MarginPercentage: marginPercentage,
		Status:           domain.CostStatusForMargin(marginPercentage),
	}, nil
}

// RecordUsage insere uma linha imutável no ledger. O acumulado mensal é
// sempre derivado por soma, então não existe passo de reset de mês.
func (s *Service) RecordUsage(userID int, runID *string, llmCost, infraCost float64) error {
	id, err := utils.GenerateID()
	if err != nil {
		return err
	}

	event := &domain.UsageEvent{
		ID:         id,
		UserID:     userID,
		RunID:      runID,
		LLMCost:    llmCost,
		InfraCost:  infraCost,
		OccurredAt: time.Now().UTC(),
	}

	if err := s.usageRepo.Insert(event); err != nil {
		logrus.WithField("user_id", userID).WithError(err).Error("Erro ao registrar evento de uso")
		return ErrDatabaseOperation
	}

	return nil
}

// monthStart normaliza para a meia-noite UTC do dia 1 do mês corrente
func monthStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}
