package auth

import (
	"ctchen222/todo-api/internal/api/repository"
	"ctchen222/todo-api/internal/config"
	"fmt"
)

// New builds the strategy selected by cfg. sessions is only used, and only
// required, by the session strategy.
func New(cfg config.AuthConfig, users repository.UserRepository, sessions repository.SessionRepository) (Strategy, error) {
	switch cfg.Strategy {
	case config.StrategyBearer:
		return NewBearerStrategy(users), nil
	case config.StrategySession:
		if sessions == nil {
			return nil, fmt.Errorf("session strategy needs a session store")
		}
		return NewSessionStrategy(users, sessions, cfg.SessionTTL, cfg.CookieSecure), nil
	case config.StrategyJWT:
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("jwt strategy needs a secret")
		}
		return NewJWTStrategy(users, cfg.JWTSecret, cfg.JWTTTL), nil
	default:
		return nil, fmt.Errorf("unknown auth strategy %q", cfg.Strategy)
	}
}
