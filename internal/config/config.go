package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Upload   UploadConfig   `mapstructure:"upload" validate:"required"`
	Task     TaskConfig     `mapstructure:"task" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// ShutdownTimeoutSeconds bounds graceful shutdown of in-flight requests.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"gte=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`

	// MaxOpenConns caps the connection pool; 0 means the driver default.
	MaxOpenConns int `mapstructure:"max_open_conns" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// TokenLifetimeMinutes is the validity window of access tokens.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lte=1440"`

	// RefreshTokenLifetimeMinutes is the validity window of refresh tokens.
	RefreshTokenLifetimeMinutes int `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0,lte=43200"`

	// BcryptCost controls password hashing work factor; 0 uses the bcrypt default.
	BcryptCost int `mapstructure:"bcrypt_cost" validate:"gte=0,lte=31"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key"`

	// ModelName selects the Gemini model used for transcript analysis.
	ModelName string `mapstructure:"model_name" validate:"required"`

	// MaxRetries bounds attempts against the model API before falling back.
	MaxRetries int `mapstructure:"max_retries" validate:"gte=0,lte=10"`

	// RetryDelaySeconds is the base delay between retries (grows exponentially).
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds" validate:"gte=0"`

	// Enabled turns the model integration off entirely, forcing heuristic
	// scoring. Useful for local development without an API key.
	Enabled bool `mapstructure:"enabled"`
}

// UploadConfig contains settings for stored audio uploads.
type UploadConfig struct {
	// Dir is the directory audio files are written to.
	Dir string `mapstructure:"dir" validate:"required"`

	// MaxBytes caps the accepted upload size.
	MaxBytes int64 `mapstructure:"max_bytes" validate:"required,gt=0"`
}

// TaskConfig contains background task processing settings.
type TaskConfig struct {
	// WorkerCount is the number of concurrent task workers.
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0,lte=64"`

	// QueueSize is the buffered capacity of the in-memory task queue.
	QueueSize int `mapstructure:"queue_size" validate:"required,gt=0"`

	// StuckTaskAgeMinutes is how old a processing task must be before
	// startup recovery re-queues it.
	StuckTaskAgeMinutes int `mapstructure:"stuck_task_age_minutes" validate:"required,gt=0"`
}
