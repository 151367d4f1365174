package placement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/thenoetrevino/kanrank/internal/database"
	"github.com/thenoetrevino/kanrank/internal/events"
	"github.com/thenoetrevino/kanrank/internal/metrics"
	"github.com/thenoetrevino/kanrank/internal/models"
	"github.com/thenoetrevino/kanrank/internal/rank"
	"github.com/thenoetrevino/kanrank/internal/types"
)

const (
	// DefaultMaxAttempts bounds how often a conflicting transaction is run
	DefaultMaxAttempts = 3

	// DefaultRetryBaseDelay is the first backoff after a conflict; it doubles per retry
	DefaultRetryBaseDelay = 10 * time.Millisecond

	maxTitleLength = 255
	publishRetries = 3
)

// Service defines all ordering operations on issues
type Service interface {
	// PlaceIssue moves an existing issue, or computes a placement for a new
	// one when IssueID is nil
	PlaceIssue(ctx context.Context, req PlaceIssueRequest) (*models.Placement, error)

	// CreateIssue places and inserts a new issue in one transaction
	CreateIssue(ctx context.Context, req CreateIssueRequest) (*models.Issue, error)

	// RebalanceColumn respaces every rank in a column and returns how many changed
	RebalanceColumn(ctx context.Context, columnID types.ColumnID) (int, error)

	// ColumnOrder returns a column's issues sorted by rank
	ColumnOrder(ctx context.Context, columnID types.ColumnID) ([]*models.Issue, error)
}

// Store is the persistence the service needs
type Store interface {
	database.TxRunner
	GetColumn(ctx context.Context, columnID types.ColumnID) (*models.Column, error)
	GetIssuesByColumn(ctx context.Context, columnID types.ColumnID) ([]*models.Issue, error)
}

// PlaceIssueRequest encapsulates a placement of a new or existing issue
type PlaceIssueRequest struct {
	IssueID     *types.IssueID // Optional: nil places a new issue without inserting it
	ColumnID    types.ColumnID
	TargetIndex int
}

// CreateIssueRequest encapsulates all data needed to create an issue
type CreateIssueRequest struct {
	ColumnID    types.ColumnID
	TargetIndex int
	Title       string
	Description string
}

// Option configures a Service
type Option func(*service)

// WithMetrics records placement outcomes in m
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *service) {
		s.metrics = m
	}
}

// WithRetry sets the conflict retry budget and the first backoff delay
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(s *service) {
		if maxAttempts > 0 {
			s.maxAttempts = maxAttempts
		}
		if baseDelay >= 0 {
			s.retryBaseDelay = baseDelay
		}
	}
}

// WithLogger sets the logger used by the service and its coordinator
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// service implements Service interface
type service struct {
	store          Store
	engine         *rank.Engine
	eventClient    events.EventPublisher
	metrics        *metrics.Metrics
	logger         *slog.Logger
	maxAttempts    int
	retryBaseDelay time.Duration
}

// NewService creates a new placement service
func NewService(store Store, engine *rank.Engine, eventClient events.EventPublisher, opts ...Option) Service {
	s := &service{
		store:          store,
		engine:         engine,
		eventClient:    eventClient,
		logger:         slog.Default(),
		maxAttempts:    DefaultMaxAttempts,
		retryBaseDelay: DefaultRetryBaseDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = rank.DefaultEngine()
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	return s
}

// PlaceIssue handles issue placement with conflict retries
func (s *service) PlaceIssue(ctx context.Context, req PlaceIssueRequest) (*models.Placement, error) {
	opID := uuid.NewString()
	logger := s.logger.With("op_id", opID)
	coordinator := NewCoordinator(s.engine, logger)

	var placement *models.Placement
	err := s.runWithRetry(ctx, logger, func(tx database.OrderingTx) error {
		var err error
		placement, err = coordinator.Place(ctx, tx, PlaceRequest(req))
		return err
	})
	if err != nil {
		s.recordFailure(err)
		return nil, err
	}

	if !placement.Changed {
		s.metrics.IncNoOps()
		logger.Debug("placement is a no-op", "issue_id", placement.IssueID, "column_id", placement.ColumnID)
		return placement, nil
	}

	s.recordPlacement(placement)
	if placement.IssueID > 0 {
		s.publish(ctx, opID, placement)
	}
	logger.Info("placed issue",
		"issue_id", placement.IssueID,
		"column_id", placement.ColumnID,
		"rank", placement.Rank,
		"rebalanced", placement.Rebalanced)
	return placement, nil
}

// CreateIssue handles issue creation with validation and placement
func (s *service) CreateIssue(ctx context.Context, req CreateIssueRequest) (*models.Issue, error) {
	if err := validateCreateIssue(req); err != nil {
		return nil, err
	}

	opID := uuid.NewString()
	logger := s.logger.With("op_id", opID)
	coordinator := NewCoordinator(s.engine, logger)

	var (
		placement *models.Placement
		issue     *models.Issue
	)
	err := s.runWithRetry(ctx, logger, func(tx database.OrderingTx) error {
		var err error
		placement, err = coordinator.Place(ctx, tx, PlaceRequest{
			ColumnID:    req.ColumnID,
			TargetIndex: req.TargetIndex,
		})
		if err != nil {
			return err
		}

		issue, err = tx.InsertIssue(ctx, &models.Issue{
			ColumnID:    placement.ColumnID,
			Rank:        placement.Rank,
			Title:       strings.TrimSpace(req.Title),
			Description: req.Description,
		})
		if err != nil {
			return fmt.Errorf("failed to create issue: %w", err)
		}
		return nil
	})
	if err != nil {
		s.recordFailure(err)
		return nil, err
	}

	placement.IssueID = issue.ID
	s.recordPlacement(placement)
	s.publish(ctx, opID, placement)
	logger.Info("created issue",
		"issue_id", issue.ID,
		"column_id", issue.ColumnID,
		"rank", issue.Rank,
		"rebalanced", placement.Rebalanced)
	return issue, nil
}

// RebalanceColumn respaces a column on request
func (s *service) RebalanceColumn(ctx context.Context, columnID types.ColumnID) (int, error) {
	opID := uuid.NewString()
	logger := s.logger.With("op_id", opID)
	coordinator := NewCoordinator(s.engine, logger)

	var rewritten int
	err := s.runWithRetry(ctx, logger, func(tx database.OrderingTx) error {
		var err error
		rewritten, err = coordinator.Rebalance(ctx, tx, columnID)
		return err
	})
	if err != nil {
		s.recordFailure(err)
		return 0, err
	}

	s.metrics.AddRebalance(rewritten)
	_ = events.PublishWithRetry(ctx, s.eventClient, events.Event{
		Type:        events.EventColumnRebalanced,
		OperationID: opID,
		ColumnID:    columnID,
	}, publishRetries)
	return rewritten, nil
}

// ColumnOrder retrieves a column's issues in rank order
func (s *service) ColumnOrder(ctx context.Context, columnID types.ColumnID) ([]*models.Issue, error) {
	if columnID <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrColumnNotFound, columnID)
	}
	if _, err := s.store.GetColumn(ctx, columnID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrColumnNotFound, columnID)
		}
		return nil, err
	}

	issues, err := s.store.GetIssuesByColumn(ctx, columnID)
	if err != nil {
		return nil, fmt.Errorf("failed to list column %d: %w", columnID, err)
	}
	return issues, nil
}

// runWithRetry runs fn in a fresh transaction, retrying with exponential
// backoff while the store reports a conflict. fn must not keep state between
// attempts.
func (s *service) runWithRetry(ctx context.Context, logger *slog.Logger, fn func(tx database.OrderingTx) error) error {
	delay := s.retryBaseDelay
	for attempt := 1; ; attempt++ {
		err := s.store.RunInTx(ctx, fn)
		if err == nil {
			return nil
		}
		if !errors.Is(err, database.ErrConflict) {
			return err
		}

		if attempt >= s.maxAttempts {
			logger.Warn("giving up after concurrent changes",
				"attempts", attempt,
				"error", err)
			return fmt.Errorf("%w (after %d attempts): %v", ErrConcurrencyConflict, attempt, err)
		}

		s.metrics.IncConflictRetries()
		logger.Warn("concurrent change to column order, retrying",
			"attempt", attempt,
			"max_attempts", s.maxAttempts,
			"retry_delay", delay,
			"error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}

func (s *service) recordPlacement(placement *models.Placement) {
	s.metrics.IncPlacements()
	if placement.Rebalanced {
		s.metrics.AddRebalance(placement.Rewritten)
	}
}

func (s *service) recordFailure(err error) {
	switch {
	case errors.Is(err, ErrConcurrencyConflict):
		s.metrics.IncConflictFailures()
	case errors.Is(err, ErrRebalanceFailed):
		s.metrics.IncRebalanceFailures()
	}
}

// publish notifies listeners of a committed placement. A rebalance of the
// destination column is announced first since it changed every rank there.
func (s *service) publish(ctx context.Context, opID string, placement *models.Placement) {
	if placement.Rebalanced {
		_ = events.PublishWithRetry(ctx, s.eventClient, events.Event{
			Type:        events.EventColumnRebalanced,
			OperationID: opID,
			ColumnID:    placement.ColumnID,
		}, publishRetries)
	}
	_ = events.PublishWithRetry(ctx, s.eventClient, events.Event{
		Type:        events.EventIssuePlaced,
		OperationID: opID,
		ColumnID:    placement.ColumnID,
		IssueID:     placement.IssueID,
		Rank:        placement.Rank,
	}, publishRetries)
}

// validateCreateIssue validates issue creation request
func validateCreateIssue(req CreateIssueRequest) error {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return ErrEmptyTitle
	}
	if len(title) > maxTitleLength {
		return ErrTitleTooLong
	}
	if req.TargetIndex < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPosition, req.TargetIndex)
	}
	if req.ColumnID <= 0 {
		return fmt.Errorf("%w: %d", ErrColumnNotFound, req.ColumnID)
	}
	return nil
}
