package config

import "time"

type Config struct {
	Web struct {
		Address         string        `conf:"default:0.0.0.0:8000"`
		ReadTimeout     time.Duration `conf:"default:5s"`
		WriteTimeout    time.Duration `conf:"default:20s"`
		IdleTimeout     time.Duration `conf:"default:120s"`
		ShutdownTimeout time.Duration `conf:"default:20s"`
	}
	Cors struct {
		Origin string `conf:"default:http://localhost:3000"`
	}
	Session struct {
		Lifetime    time.Duration `conf:"default:720h"`
		IdleTimeout time.Duration `conf:"default:168h"`
		CookieName  string        `conf:"default:marble_session"`
		Secure      bool          `conf:"default:false"`
	}
	Redis    Redis
	Backend  Backend
	Oauth    Oauth
	Rate     Rate
	Catalog  Catalog
	LogLevel string `conf:"default:info"`
}

type Redis struct {
	Addr     string `conf:"default:localhost:6379"`
	Password string `conf:"mask"`
	DB       int    `conf:"default:0"`
}

type Backend struct {
	BaseURL      string        `conf:"default:https://marimexbackend.vercel.app"`
	Timeout      time.Duration `conf:"default:10s"`
	OpenTimeout  time.Duration `conf:"default:30s"`
	MinRequests  uint32        `conf:"default:5"`
	FailureRatio float64       `conf:"default:0.6"`
}

type Oauth struct {
	Google           Provider
	LoginRedirectURL string        `conf:"default:http://localhost:3000"`
	DiscoveryTimeout time.Duration `conf:"default:10s"`
}

type Provider struct {
	Client      string
	Secret      string `conf:"mask"`
	URL         string `conf:"default:https://accounts.google.com"`
	RedirectURL string `conf:"default:http://localhost:8000/auth/oauth-callback/google"`
}

// Rate limits abusable endpoints per client address.
type Rate struct {
	RPS    float64       `conf:"default:1"`
	Burst  int           `conf:"default:10"`
	Expiry time.Duration `conf:"default:10m"`
}

type Catalog struct {
	DefaultPageSize int `conf:"default:12"`
	MaxPageSize     int `conf:"default:100"`
}
