package config

import "fmt"

// InsecureDefaultSecret is the placeholder JWT secret shipped in the sample
// config. Running in release mode with it still set is a deployment error.
const InsecureDefaultSecret = "change-me-in-production"

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type PasswordConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type JWTConfig struct {
	AccessSecret     string `mapstructure:"access_secret"`
	RefreshSecret    string `mapstructure:"refresh_secret"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
	RefreshExpDays   int    `mapstructure:"refresh_exp_days"`
}

type ResetConfig struct {
	ExpiresMinutes int `mapstructure:"expires_minutes"`
}

type SessionConfig struct {
	MaxAllowedDevices int `mapstructure:"max_allowed_devices"`
}

type CookieConfig struct {
	Domain   string `mapstructure:"domain"`
	Path     string `mapstructure:"path"`
	Secure   bool   `mapstructure:"secure"`
	SameSite string `mapstructure:"same_site"`
}

type AuthConfig struct {
	Password PasswordConfig `mapstructure:"password"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Reset    ResetConfig    `mapstructure:"reset"`
	Session  SessionConfig  `mapstructure:"session"`
	Cookie   CookieConfig   `mapstructure:"cookie"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type RateLimitConfig struct {
	Limit         int `mapstructure:"limit"`
	WindowSeconds int `mapstructure:"window_seconds"`
}

// ValidateSecrets rejects the insecure default signing secrets outside of
// development. A missing secret must fail startup, never be silently accepted.
func (a *AuthConfig) ValidateSecrets(serverMode string) error {
	if serverMode != "release" {
		return nil
	}
	if a.JWT.AccessSecret == "" || a.JWT.AccessSecret == InsecureDefaultSecret {
		return fmt.Errorf("auth.jwt.access_secret is unset or uses the insecure default; refusing to start in release mode")
	}
	if a.JWT.RefreshSecret == "" || a.JWT.RefreshSecret == InsecureDefaultSecret {
		return fmt.Errorf("auth.jwt.refresh_secret is unset or uses the insecure default; refusing to start in release mode")
	}
	return nil
}
