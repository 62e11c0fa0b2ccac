package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xixoi/ads-autopilot-api/infrastructure/database/postgres"
	"github.com/xixoi/ads-autopilot-api/infrastructure/integrator/adplatform"
	"github.com/xixoi/ads-autopilot-api/infrastructure/integrator/llmgateway/gatewayclient"
	"github.com/xixoi/ads-autopilot-api/infrastructure/repository"
	"github.com/xixoi/ads-autopilot-api/internal/api"
	"github.com/xixoi/ads-autopilot-api/internal/config"
	"github.com/xixoi/ads-autopilot-api/internal/metrics"
	"github.com/xixoi/ads-autopilot-api/internal/scheduler"
	"github.com/xixoi/ads-autopilot-api/internal/usecases/authenticating"
	"github.com/xixoi/ads-autopilot-api/internal/usecases/conducting"
	"github.com/xixoi/ads-autopilot-api/internal/usecases/costing"
	"github.com/xixoi/ads-autopilot-api/internal/usecases/credentialing"
	"github.com/xixoi/ads-autopilot-api/internal/usecases/publishing"
	"github.com/xixoi/ads-autopilot-api/pkg/secrets"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A chave de cifra das credenciais é obrigatória na subida do processo;
	// chave ausente ou de tamanho errado é erro fatal, nunca recuperável em
	// tempo de execução
	codec, err := secrets.NewCodec(cfg.Secrets.CredentialEncryptionKey)
	if err != nil {
		logrus.WithError(err).Fatal("Chave de cifra de credenciais inválida")
	}

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	appMetrics := metrics.Registry("xixoi")

	userRepo := repository.NewUserRepository(pgConn)
	credentialRepo := repository.NewCredentialRepository(pgConn)
	campaignRepo := repository.NewCampaignRepository(pgConn)
	performanceRepo := repository.NewPerformanceRepository(pgConn)
	usageRepo := repository.NewUsageRepository(pgConn)
	productRepo := repository.NewProductRepository(pgConn)
	decisionLogRepo := repository.NewDecisionLogRepository(pgConn)
	taskRepo := repository.NewTaskRepository(pgConn)

	authenticator := authenticating.NewService(userRepo, cfg)
	credentialService := credentialing.NewService(credentialRepo, codec)
	costService := costing.NewService(usageRepo, cfg.CostCeilings)

	gatewayClient := gatewayclient.NewClient(cfg)
	adapterRegistry := adplatform.NewRegistry()

	publishService := publishing.NewService(campaignRepo, userRepo, credentialService, adapterRegistry, appMetrics)

	conductorService := conducting.NewService(
		campaignRepo,
		performanceRepo,
		productRepo,
		decisionLogRepo,
		taskRepo,
		userRepo,
		costService,
		gatewayClient,
		cfg.Conductor,
		appMetrics,
	)

	conductorRunService := scheduler.NewConductorRunService(conductorService, cfg)

	if err := conductorRunService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador do conductor")
	} else {
		logrus.Info("Agendador do conductor iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		authenticator,
		credentialService,
		publishService,
		campaignRepo,
		decisionLogRepo,
		conductorRunService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
