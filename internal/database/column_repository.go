package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thenoetrevino/kanrank/internal/models"
	"github.com/thenoetrevino/kanrank/internal/types"
)

// ============================================================================
// Column Operations
// ============================================================================

const selectColumnSQL = `
	SELECT c.id, c.name, c.created_at, COUNT(i.id)
	FROM columns c
	LEFT JOIN issues i ON i.column_id = c.id`

func scanColumn(row rowScanner) (*models.Column, error) {
	column := &models.Column{}
	var id int64
	if err := row.Scan(&id, &column.Name, &column.CreatedAt, &column.IssueCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	column.ID = types.ColumnID(id)
	return column, nil
}

// CreateColumn creates a new, empty column
func (s *Store) CreateColumn(ctx context.Context, name string) (*models.Column, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		s.dialect.rebind("INSERT INTO columns (name) VALUES (?) RETURNING id"), name,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create column: %w", err)
	}
	return s.GetColumn(ctx, types.ColumnID(id))
}

// GetColumn retrieves a column and its issue count
func (s *Store) GetColumn(ctx context.Context, columnID types.ColumnID) (*models.Column, error) {
	column, err := scanColumn(s.db.QueryRowContext(ctx,
		s.dialect.rebind(selectColumnSQL+" WHERE c.id = ? GROUP BY c.id, c.name, c.created_at"),
		int64(columnID),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to get column %d: %w", columnID, err)
	}
	return column, nil
}

// GetColumns retrieves all columns in creation order
func (s *Store) GetColumns(ctx context.Context) ([]*models.Column, error) {
	rows, err := s.db.QueryContext(ctx, selectColumnSQL+" GROUP BY c.id, c.name, c.created_at ORDER BY c.id")
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}
	defer rows.Close()

	var columns []*models.Column
	for rows.Next() {
		column, err := scanColumn(rows)
		if err != nil {
			return nil, err
		}
		columns = append(columns, column)
	}
	return columns, rows.Err()
}
