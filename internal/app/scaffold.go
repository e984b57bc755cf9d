package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/kacper-wojtaszczyk/idp-demo/internal/api"
	"github.com/kacper-wojtaszczyk/idp-demo/internal/config"
	"github.com/kacper-wojtaszczyk/idp-demo/internal/scaffold"
)

// Scaffold is the generated skeleton service.
type Scaffold struct {
	*Server

	cfg *config.ScaffoldConfig
}

func NewScaffold(cfg *config.ScaffoldConfig, logger *slog.Logger) *Scaffold {
	mux := http.NewServeMux()
	scaffold.NewHandler(cfg.Name, cfg.Description).RegisterRoutes(mux)

	return &Scaffold{
		Server: newServer(api.RequestID(mux), cfg.ShutdownTimeout, logger),
		cfg:    cfg,
	}
}

// Listen binds the configured port and logs that the service is running.
func (s *Scaffold) Listen() error {
	port, err := s.listen(s.cfg.Port)
	if err != nil {
		return err
	}

	s.logger.Info(fmt.Sprintf("%s running on port %d", s.cfg.Name, port), "port", port)
	return nil
}
