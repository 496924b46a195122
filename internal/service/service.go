package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/booklend/lending-service/internal/model"
	"github.com/booklend/lending-service/internal/repository"
)

// Policy holds the lending rules that are configuration, not code.
type Policy struct {
	MinDays       int
	MaxDays       int
	DefaultDays   int
	LateFeePerDay float64
	LateFeeCap    float64
}

func DefaultPolicy() Policy {
	return Policy{
		MinDays:       7,
		MaxDays:       90,
		DefaultDays:   14,
		LateFeePerDay: 2.00,
		LateFeeCap:    25.00,
	}
}

// CatalogClient resolves book summaries for response enrichment only,
// never for authorization or availability decisions.
type CatalogClient interface {
	GetBook(ctx context.Context, bookUid string) (model.BookSummary, error)
}

// DirectoryClient resolves user summaries for response enrichment only.
type DirectoryClient interface {
	GetUser(ctx context.Context, username string) (model.UserSummary, error)
}

// EventPublisher records committed lifecycle transitions on the event
// stream; publishing never gates a transition.
type EventPublisher interface {
	Publish(ctx context.Context, event model.LoanEvent) error
}

type Service struct {
	log       *zap.Logger
	repo      repository.Repository
	policy    Policy
	catalog   CatalogClient
	directory DirectoryClient
	publisher EventPublisher
	now       func() time.Time
}

type Option func(*Service)

func WithCatalog(c CatalogClient) Option {
	return func(s *Service) { s.catalog = c }
}

func WithDirectory(d DirectoryClient) Option {
	return func(s *Service) { s.directory = d }
}

func WithPublisher(p EventPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo repository.Repository, policy Policy, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		log:    log,
		repo:   repo,
		policy: policy,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) publish(ctx context.Context, event model.LoanEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("publish event", zap.String("kind", event.Kind), zap.Error(err))
	}
}

// bookSummaries fans out catalog lookups; a failed lookup degrades the
// projection instead of failing the read.
func (s *Service) bookSummaries(ctx context.Context, uids []string) map[string]*model.BookSummary {
	out := make(map[string]*model.BookSummary, len(uids))
	if s.catalog == nil {
		return out
	}

	seen := make(map[string]struct{}, len(uids))
	gg, gctx := errgroup.WithContext(ctx)
	results := make([]*model.BookSummary, len(uids))
	for i, uid := range uids {
		if _, ok := seen[uid]; ok {
			continue
		}
		seen[uid] = struct{}{}
		i, uid := i, uid
		gg.Go(func() error {
			book, err := s.catalog.GetBook(gctx, uid)
			if err != nil {
				s.log.Debug("catalog.GetBook", zap.String("bookUid", uid), zap.Error(err))
				return nil
			}
			results[i] = &book
			return nil
		})
	}
	_ = gg.Wait()

	for _, book := range results {
		if book != nil {
			out[book.BookUid] = book
		}
	}
	return out
}

func (s *Service) userSummary(ctx context.Context, username string) *model.UserSummary {
	if s.directory == nil {
		return nil
	}
	user, err := s.directory.GetUser(ctx, username)
	if err != nil {
		s.log.Debug("directory.GetUser", zap.String("username", username), zap.Error(err))
		return nil
	}
	return &user
}
