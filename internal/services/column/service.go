package column

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/thenoetrevino/kanrank/internal/database"
	"github.com/thenoetrevino/kanrank/internal/models"
	"github.com/thenoetrevino/kanrank/internal/types"
)

const maxNameLength = 50

// Service defines all column-related business operations
type Service interface {
	// Read operations
	GetColumns(ctx context.Context) ([]*models.Column, error)
	GetColumnByID(ctx context.Context, id types.ColumnID) (*models.Column, error)

	// Write operations
	CreateColumn(ctx context.Context, req CreateColumnRequest) (*models.Column, error)
}

// Repository is the column storage the service needs
type Repository interface {
	CreateColumn(ctx context.Context, name string) (*models.Column, error)
	GetColumn(ctx context.Context, columnID types.ColumnID) (*models.Column, error)
	GetColumns(ctx context.Context) ([]*models.Column, error)
}

// CreateColumnRequest encapsulates data for creating a column
type CreateColumnRequest struct {
	Name string
}

// service implements Service interface
type service struct {
	repo Repository
}

// NewService creates a new column service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// GetColumns retrieves all columns with their issue counts
func (s *service) GetColumns(ctx context.Context) ([]*models.Column, error) {
	columns, err := s.repo.GetColumns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	return columns, nil
}

// GetColumnByID retrieves a specific column
func (s *service) GetColumnByID(ctx context.Context, id types.ColumnID) (*models.Column, error) {
	if id <= 0 {
		return nil, ErrInvalidColumnID
	}
	column, err := s.repo.GetColumn(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrColumnNotFound
	}
	if err != nil {
		return nil, err
	}
	return column, nil
}

// CreateColumn creates a new empty column
func (s *service) CreateColumn(ctx context.Context, req CreateColumnRequest) (*models.Column, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(name) > maxNameLength {
		return nil, ErrNameTooLong
	}

	column, err := s.repo.CreateColumn(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create column: %w", err)
	}
	return column, nil
}
