package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/booklend/lending-service/config"
	"github.com/booklend/lending-service/internal/errs"
	"github.com/booklend/lending-service/internal/model"
	cb "github.com/booklend/lending-service/pkg/circuit_breaker"
)

// Service is the user directory collaborator client, display lookups
// only. Authorization never consults it.
type Service struct {
	log    *zap.Logger
	client *http.Client
	cfg    config.DirectoryHTTPServer
	cb     cb.CircuitBreaker
}

func NewService(log *zap.Logger, cfg config.DirectoryHTTPServer) *Service {
	return &Service{
		log:    log.Named("directory"),
		client: &http.Client{Timeout: time.Second * 10},
		cfg:    cfg,
		cb:     cb.New(20, time.Second*30, 0.5, 5),
	}
}

func (s *Service) GetUser(ctx context.Context, username string) (model.UserSummary, error) {
	var user model.UserSummary
	err := s.cb.Call(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			fmt.Sprintf("http://%s/api/v1/users/%s", net.JoinHostPort(s.cfg.Host, s.cfg.Port), username), http.NoBody)
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", echo.MIMEApplicationJSONCharsetUTF8)

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return errs.ErrNotFound
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("directory: unexpected status %d", resp.StatusCode)
		}
		return json.NewDecoder(resp.Body).Decode(&user)
	})
	if err != nil {
		return model.UserSummary{}, err
	}
	return user, nil
}
