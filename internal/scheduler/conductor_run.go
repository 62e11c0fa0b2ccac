package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/xixoi/ads-autopilot-api/internal/config"
	"github.com/xixoi/ads-autopilot-api/internal/domain"
	"github.com/xixoi/ads-autopilot-api/internal/usecases/conducting"
)

// ConductorRunService gerencia o agendamento das execuções do conductor.
// Uma execução por vez: disparos sobrepostos, agendados ou manuais, são
// ignorados enquanto houver ciclo em andamento.
type ConductorRunService struct {
	scheduler          *gocron.Scheduler
	config             config.Conductor
	conductor          conducting.Conductor
	runRunning         bool
	runMutex           sync.Mutex
	lastRunStartedAt   time.Time
	lastRunCompletedAt time.Time
	lastRunResult      *domain.ConductorRunResult
	lastRunError       error
}

// NewConductorRunService cria uma nova instância do serviço de agendamento do conductor
func NewConductorRunService(conductor conducting.Conductor, appConfig *config.Config) *ConductorRunService {
	scheduler := gocron.NewScheduler(time.UTC)

	logrus.WithFields(logrus.Fields{
		"cron_schedule":           appConfig.Conductor.CronSchedule,
		"enabled":                 appConfig.Conductor.Enabled,
		"performance_window_days": appConfig.Conductor.PerformanceWindowDays,
	}).Info("Configuração do agendador do conductor carregada")

	return &ConductorRunService{
		scheduler:  scheduler,
		config:     appConfig.Conductor,
		conductor:  conductor,
		runRunning: false,
	}
}

// Start inicia o agendador
func (s *ConductorRunService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Execução agendada do conductor desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador do conductor")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.runConductorCycle(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar execução do conductor: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador do conductor")
		s.scheduler.Stop()
	}()

	return nil
}

// runConductorCycle executa um ciclo, garantindo exclusão mútua entre
// disparos agendados e manuais
func (s *ConductorRunService) runConductorCycle(ctx context.Context) {
	s.runMutex.Lock()
	if s.runRunning {
		s.runMutex.Unlock()
		logrus.Info("Ciclo do conductor já em andamento, ignorando")
		return
	}
	s.runRunning = true
	s.lastRunStartedAt = time.Now()
	s.runMutex.Unlock()

	defer func() {
		s.runMutex.Lock()
		s.runRunning = false
		s.lastRunCompletedAt = time.Now()
		s.runMutex.Unlock()
	}()

	result, err := s.conductor.Run(ctx)

	s.runMutex.Lock()
	s.lastRunResult = result
	s.lastRunError = err
	s.runMutex.Unlock()

	if err != nil {
		logrus.WithError(err).Error("Ciclo agendado do conductor falhou")
		return
	}

	logrus.WithFields(logrus.Fields{
		"run_id":    result.RunID,
		"decisions": result.DecisionsCount,
		"executed":  len(result.ExecutedActions),
	}).Info("Ciclo agendado do conductor concluído")
}

// TriggerManualRun inicia manualmente um ciclo do conductor.
// Retorna false se já houver um ciclo em andamento.
func (s *ConductorRunService) TriggerManualRun(ctx context.Context) bool {
	s.runMutex.Lock()
	if s.runRunning {
		s.runMutex.Unlock()
		logrus.Info("Ciclo do conductor já em andamento, ignorando solicitação manual")
		return false
	}
	s.runMutex.Unlock()

	logrus.Info("Iniciando ciclo manual do conductor")
	go s.runConductorCycle(ctx)
	return true
}

// GetStatus retorna o status atual do agendador
func (s *ConductorRunService) GetStatus() map[string]any {
	s.runMutex.Lock()
	defer s.runMutex.Unlock()

	status := map[string]any{
		"enabled":                 s.config.Enabled,
		"cron":                    s.config.CronSchedule,
		"performance_window_days": s.config.PerformanceWindowDays,
		"run_running":             s.runRunning,
		"last_run_started_at":     s.lastRunStartedAt,
		"last_run_completed_at":   s.lastRunCompletedAt,
	}

	if s.lastRunResult != nil {
		status["last_run_id"] = s.lastRunResult.RunID
		status["last_run_decisions"] = s.lastRunResult.DecisionsCount
		status["last_run_executed"] = len(s.lastRunResult.ExecutedActions)
	}

	if s.lastRunError != nil {
		status["last_run_error"] = s.lastRunError.Error()
	}

	return status
}
