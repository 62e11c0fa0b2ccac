package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics guarda os coletores Prometheus usados pelo serviço
type Metrics struct {
	ConductorRuns     *prometheus.CounterVec
	DecisionsProposed *prometheus.CounterVec
	DecisionsExecuted *prometheus.CounterVec
	DecisionsBlocked  *prometheus.CounterVec
	GatewayRequests   *prometheus.CounterVec
	GatewayLatency    *prometheus.HistogramVec
	CampaignPublishes *prometheus.CounterVec
	Errors            *prometheus.CounterVec
}

var (
	regOnce         sync.Once
	metricsInstance *Metrics
)

// Registry constrói e registra o singleton de métricas com namespace opcional
func Registry(namespace string) *Metrics {
	regOnce.Do(func() {
		metricsInstance = &Metrics{
			ConductorRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conductor_runs_total",
				Help:      "Total de execuções do conductor por resultado.",
			}, []string{"status"}),
			DecisionsProposed: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "decisions_proposed_total",
				Help:      "Total de decisões propostas pelo gateway por tipo.",
			}, []string{"kind"}),
			DecisionsExecuted: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "decisions_executed_total",
				Help:      "Total de decisões executadas automaticamente por tipo.",
			}, []string{"kind"}),
			DecisionsBlocked: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "decisions_blocked_total",
				Help:      "Total de decisões barradas pelos gates por motivo.",
			}, []string{"gate"}),
			GatewayRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "llm_gateway_requests_total",
				Help:      "Total de chamadas ao gateway de LLM por resultado.",
			}, []string{"status"}),
			GatewayLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "llm_gateway_request_duration_seconds",
				Help:      "Distribuição de latência das chamadas ao gateway de LLM.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"status"}),
			CampaignPublishes: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "campaign_publishes_total",
				Help:      "Total de publicações de campanha por plataforma e resultado.",
			}, []string{"platform", "status"}),
			Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total de erros agrupados por componente.",
			}, []string{"component"}),
		}

		prometheus.MustRegister(
			metricsInstance.ConductorRuns,
			metricsInstance.DecisionsProposed,
			metricsInstance.DecisionsExecuted,
			metricsInstance.DecisionsBlocked,
			metricsInstance.GatewayRequests,
			metricsInstance.GatewayLatency,
			metricsInstance.CampaignPublishes,
			metricsInstance.Errors,
		)
	})
	return metricsInstance
}
