package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
	Quota    QuotaConfig    `mapstructure:"quota"    validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret               string `mapstructure:"jwt_secret"                 validate:"required,min=32"`
	TokenLifetimeMinutes    int    `mapstructure:"token_lifetime_minutes"     validate:"required,gt=0"`
	RefreshLifetimeMinutes  int    `mapstructure:"refresh_lifetime_minutes"   validate:"required,gt=0"`
	BcryptCost              int    `mapstructure:"bcrypt_cost"                validate:"gte=0,lte=31"`
}

// LLMConfig contains all language-model integration settings.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName    string `mapstructure:"model_name"     validate:"required"`

	// RequestTimeoutSeconds bounds a single upstream generation call.
	// The upstream contract specifies no timeout; this is local policy.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
}

// QuotaConfig contains the per-user generation admission settings.
type QuotaConfig struct {
	Budget      int `mapstructure:"budget"       validate:"required,gt=0"`
	WindowHours int `mapstructure:"window_hours" validate:"required,gt=0"`
}
