package catalog

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

// Service is the book catalog collaborator client. Lookups feed
// response enrichment only; an open breaker degrades the projection.
type Service struct {
	log    *zap.Logger
	client *http.Client
	cfg    config.CatalogHTTPServer
	cb     cb.CircuitBreaker
}

func NewService(log *zap.Logger, cfg config.CatalogHTTPServer) *Service {
	return &Service{
		log:    log.Named("catalog"),
		client: &http.Client{Timeout: time.Second * 10},
		cfg:    cfg,
		cb:     cb.New(20, time.Second*30, 0.5, 5),
	}
}

func (s *Service) GetBook(ctx context.Context, bookUid string) (model.BookSummary, error) {
	var book model.BookSummary
	err := s.cb.Call(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			fmt.Sprintf("http://%s/api/v1/books/%s", net.JoinHostPort(s.cfg.Host, s.cfg.Port), bookUid), http.NoBody)
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
			return fmt.Errorf("catalog: unexpected status %d", resp.StatusCode)
		}
		return json.NewDecoder(resp.Body).Decode(&book)
	})
	if err != nil {
		return model.BookSummary{}, err
	}
	return book, nil
}
