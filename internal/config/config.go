package config

import (
	"github.com/spf13/viper"
)

// Webhooks holds the n8n automation backend endpoints. An empty field means
// the endpoint is not configured; the relay returns a structured failure for
// it without making a network call.
type Webhooks struct {
	Login               string `mapstructure:"WEBHOOK_LOGIN"`
	Signup              string `mapstructure:"WEBHOOK_SIGNUP"`
	UpdateUser          string `mapstructure:"WEBHOOK_UPDATE_USER"`
	SubmitIntake        string `mapstructure:"WEBHOOK_SUBMIT_INTAKE"`
	GetCalendar         string `mapstructure:"WEBHOOK_GET_CALENDAR"`
	ChooseSchedule      string `mapstructure:"WEBHOOK_CHOOSE_SCHEDULE"`
	ChatAnalyze         string `mapstructure:"WEBHOOK_AI_CHAT_ANALYZE"`
	ManagerDashboard    string `mapstructure:"WEBHOOK_MANAGER_DASHBOARD"`
	DashboardPreview    string `mapstructure:"WEBHOOK_DASHBOARD_PREVIEW"`
	AdjustSchedule      string `mapstructure:"WEBHOOK_ADJUST_SCHEDULE"`
	StartConsultation   string `mapstructure:"WEBHOOK_START_CONSULTATION"`
	ConsultationSummary string `mapstructure:"WEBHOOK_CONSULTATION_SUMMARY"`
	Applications        string `mapstructure:"WEBHOOK_DASHBOARD_APPLICATIONS"`
	ApplicationDetail   string `mapstructure:"WEBHOOK_APPLICATION_DETAIL"`
}

type Config struct {
	Env             string   `mapstructure:"ENV"`
	Port            string   `mapstructure:"PORT"`
	CORSAllowed     string   `mapstructure:"CORS_ALLOWED_ORIGINS"`
	LogLevel        string   `mapstructure:"LOG_LEVEL"`
	MaxUploadSizeMB int64    `mapstructure:"MAX_UPLOAD_MB"`
	GoogleAPIKey    string   `mapstructure:"GOOGLE_API_KEY"`
	GeminiModel     string   `mapstructure:"GEMINI_MODEL"`
	RedisAddr       string   `mapstructure:"REDIS_ADDR"`
	RedisPassword   string   `mapstructure:"REDIS_PASSWORD"`
	RedisDB         int      `mapstructure:"REDIS_DB"`
	Webhooks        Webhooks `mapstructure:",squash"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("MAX_UPLOAD_MB", 20)
	v.SetDefault("GEMINI_MODEL", "gemini-2.0-flash")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_DB", 0)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
