package structs

import "time"

type Config struct {
	Server     *ServerConfig
	Cors       *CorsConfig
	Database   *DatabaseConfig
	Auth       *AuthConfig
	Cache      *CacheConfig
	RateLimit  *RateLimitConfig
	Email      *EmailConfig
	Storage    *StorageConfig
	Orders     *OrdersConfig
	Encryption *EncryptionConfig
}

type ServerConfig struct {
	AppName        string        // Storefront
	Environment    string        // development, production
	Port           string        // :8181
	PublicURL      string        // used in links sent by mail
	ReadTimeout    time.Duration // in seconds
	WriteTimeout   time.Duration // in seconds
	IdleTimeout    time.Duration // in seconds
	MaxHeaderBytes int           // in bytes
	MaxBodyBytes   int64
}

type CorsConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type DatabaseConfig struct {
	Driver       string // pgdriver or pgx
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxConns     int
	MinConns     int
	MaxLifetime  time.Duration
	MaxIdleTime  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	AutoMigrate  bool
	SlowQuery    time.Duration
}

type AuthConfig struct {
	AccessTokenSecret       string
	AccessTokenExpiry       time.Duration
	RegistrationTokenSecret string
	RegistrationTokenExpiry time.Duration
	AdminRole               string
	DefaultRole             string

	// Optional bootstrap account, created on startup when all three are set
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

type CacheConfig struct {
	Address         string
	Username        string
	Password        string
	DB              int
	PoolSize        int
	MinIdleConns    int
	MaxIdleConns    int
	PoolTimeout     time.Duration
	IdleTimeout     time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
}

type RateLimitConfig struct {
	Enabled       bool
	AuthLimit     int
	AuthWindow    time.Duration
	AdminLimit    int
	AdminWindow   time.Duration
	UploadLimit   int
	UploadWindow  time.Duration
	GeneralLimit  int
	GeneralWindow time.Duration
}

type EmailConfig struct {
	ApiKey       string
	From         string
	SupportEmail string // receives a copy of every order notification
}

type StorageConfig struct {
	ImagesDir      string // directory on disk
	PublicPath     string // URL prefix the images are served under
	MaxUploadBytes int64
}

type OrdersConfig struct {
	// TrustClientTotal keeps the caller supplied order total instead of the sum of the items
	TrustClientTotal bool
}

type EncryptionConfig struct {
	Key string // 32 bytes, empty disables at-rest encryption of shipping contacts
}
