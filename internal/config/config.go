package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/xixoi/ads-autopilot-api/internal/domain"
)

type Config struct {
	App          App          `mapstructure:",squash"`
	Server       Server       `mapstructure:",squash"`
	Database     Database     `mapstructure:",squash"`
	Auth         Auth         `mapstructure:",squash"`
	Secrets      Secrets      `mapstructure:",squash"`
	LLMGateway   LLMGateway   `mapstructure:",squash"`
	Conductor    Conductor    `mapstructure:",squash"`
	CostCeilings CostCeilings `mapstructure:",squash"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

// Secrets carrega a chave simétrica que protege as credenciais em repouso.
// A chave precisa ter exatamente 32 bytes; a validação acontece na
// construção do codec, na inicialização do processo.
type Secrets struct {
	CredentialEncryptionKey string `mapstructure:"credential_encryption_key"`
}

// LLMGateway configura o gateway de completions estruturadas
type LLMGateway struct {
	URL            string `mapstructure:"llm_gateway_url"`
	APIKey         string `mapstructure:"llm_gateway_api_key"`
	Model          string `mapstructure:"llm_gateway_model"`
	TimeoutSeconds int    `mapstructure:"llm_gateway_timeout_seconds"`
}

// Conductor configura o ciclo autônomo de otimização
type Conductor struct {
	CronSchedule          string  `mapstructure:"conductor_cron"`
	Enabled               bool    `mapstructure:"conductor_enabled"`
	PerformanceWindowDays int     `mapstructure:"conductor_performance_window_days"`
	EstimatedRunCostUSD   float64 `mapstructure:"conductor_estimated_run_cost_usd"`
	FallbackMarginPercent float64 `mapstructure:"conductor_fallback_margin_percent"`
	FallbackBreakEvenROAS float64 `mapstructure:"conductor_fallback_break_even_roas"`
	MinDailyBudgetUSD     float64 `mapstructure:"conductor_min_daily_budget_usd"`
	MaxRecommendedBudget  float64 `mapstructure:"conductor_max_recommended_budget_usd"`
	MinRecommendedBudget  float64 `mapstructure:"conductor_min_recommended_budget_usd"`
}

// CostCeilings é a tabela fixa de teto mensal (USD) de custo de IA/infra
// por tier, definida no deploy
type CostCeilings struct {
	Free       float64 `mapstructure:"cost_ceiling_free"`
	Quickstart float64 `mapstructure:"cost_ceiling_quickstart"`
	Pro        float64 `mapstructure:"cost_ceiling_pro"`
	Elite      float64 `mapstructure:"cost_ceiling_elite"`
	Agency     float64 `mapstructure:"cost_ceiling_agency"`
}

// ForTier retorna o teto do tier. Tiers desconhecidos caem no teto do free.
func (c CostCeilings) ForTier(tier domain.Tier) float64 {
	switch tier {
	case domain.TierQuickstart:
		return c.Quickstart
	case domain.TierPro:
		return c.Pro
	case domain.TierElite:
		return c.Elite
	case domain.TierAgency:
		return c.Agency
	default:
		return c.Free
	}
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/autopilot")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("AUTH_SECRET", "your_auth_secret")
	viper.SetDefault("CREDENTIAL_ENCRYPTION_KEY", "") // Obrigatória: 32 bytes

	viper.SetDefault("LLM_GATEWAY_URL", "https://gateway.xixoi.internal/v1/completions")
	viper.SetDefault("LLM_GATEWAY_API_KEY", "your_gateway_key")
	viper.SetDefault("LLM_GATEWAY_MODEL", "optimizer-large")
	viper.SetDefault("LLM_GATEWAY_TIMEOUT_SECONDS", 60)

	// Defaults do conductor
	viper.SetDefault("CONDUCTOR_CRON", "0 * * * *") // Toda hora cheia
	viper.SetDefault("CONDUCTOR_ENABLED", false)
	viper.SetDefault("CONDUCTOR_PERFORMANCE_WINDOW_DAYS", 7)
	viper.SetDefault("CONDUCTOR_ESTIMATED_RUN_COST_USD", 0.05)
	viper.SetDefault("CONDUCTOR_FALLBACK_MARGIN_PERCENT", 30.0) // Quando o usuário não tem produtos rastreados
	viper.SetDefault("CONDUCTOR_FALLBACK_BREAK_EVEN_ROAS", 3.33)
	viper.SetDefault("CONDUCTOR_MIN_DAILY_BUDGET_USD", 5.0)
	viper.SetDefault("CONDUCTOR_MAX_RECOMMENDED_BUDGET_USD", 100000.0)
	viper.SetDefault("CONDUCTOR_MIN_RECOMMENDED_BUDGET_USD", 1.0)

	// Tetos mensais de custo de IA/infra por tier (USD)
	viper.SetDefault("COST_CEILING_FREE", 10.0)
	viper.SetDefault("COST_CEILING_QUICKSTART", 25.0)
	viper.SetDefault("COST_CEILING_PRO", 75.0)
	viper.SetDefault("COST_CEILING_ELITE", 150.0)
	viper.SetDefault("COST_CEILING_AGENCY", 400.0)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	// Configurar valores padrão
	SetDefaults()

	// Configurar o Viper
	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv() // Isso permite que o Viper leia variáveis de ambiente

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../.env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
