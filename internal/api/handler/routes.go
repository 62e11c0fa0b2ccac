package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xixoi/ads-autopilot-api/infrastructure/repository"
	"github.com/xixoi/ads-autopilot-api/internal/api/handler/router"
	"github.com/xixoi/ads-autopilot-api/internal/scheduler"
	"github.com/xixoi/ads-autopilot-api/internal/usecases/authenticating"
	"github.com/xixoi/ads-autopilot-api/internal/usecases/credentialing"
	"github.com/xixoi/ads-autopilot-api/internal/usecases/publishing"
	"github.com/xixoi/ads-autopilot-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Metrics() []router.Route {
	return []router.Route{
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: promhttp.Handler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:    "/v1/register",
			Method:  http.MethodPost,
			Handler: CreateUser(service),
		},
		{
			Path:        "/v1/users/:id/generate-password",
			Method:      http.MethodPost,
			Handler:     GeneratePassword(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users/:id/change-password",
			Method:      http.MethodPost,
			Handler:     ChangePassword(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/me/autopilot",
			Method:      http.MethodPut,
			Handler:     UpdateAutopilot(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func User(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/users",
			Method:      http.MethodGet,
			Handler:     ListUsers(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users",
			Method:      http.MethodPost,
			Handler:     CreateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodGet,
			Handler:     GetUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodPut,
			Handler:     UpdateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

// Credentials retorna as rotas de gerenciamento de credenciais de plataforma
func Credentials(service credentialing.Resolver) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/credentials",
			Method:      http.MethodGet,
			Handler:     ListCredentials(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/credentials/connect",
			Method:      http.MethodPost,
			Handler:     ConnectCredential(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/credentials/system",
			Method:      http.MethodPost,
			Handler:     ProvisionSystemCredential(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/credentials/test/:platform",
			Method:      http.MethodPost,
			Handler:     TestCredential(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/credentials/:platform",
			Method:      http.MethodDelete,
			Handler:     RevokeCredential(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

// Campaigns retorna as rotas de campanhas e publicação
func Campaigns(campaignRepo repository.CampaignRepository, publisher publishing.Publisher) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/campaigns",
			Method:      http.MethodGet,
			Handler:     ListCampaigns(campaignRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/campaigns/:id/automation",
			Method:      http.MethodPut,
			Handler:     UpdateCampaignAutomation(campaignRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/campaigns/:id/publish/:platform",
			Method:      http.MethodPost,
			Handler:     PublishCampaign(publisher),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

// ConductorRoutes retorna as rotas de operação do conductor
func ConductorRoutes(service *scheduler.ConductorRunService, decisionLogRepo repository.DecisionLogRepository) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/conductor/run",
			Method:      http.MethodPost,
			Handler:     RunConductor(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
		{
			Path:        "/v1/conductor/status",
			Method:      http.MethodGet,
			Handler:     GetConductorStatus(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
		{
			Path:        "/v1/conductor/decisions",
			Method:      http.MethodGet,
			Handler:     ListDecisions(decisionLogRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
	}
}
