package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thenoetrevino/kanrank/internal/models"
	"github.com/thenoetrevino/kanrank/internal/rank"
	"github.com/thenoetrevino/kanrank/internal/types"
)

// ============================================================================
// Issue Operations
// ============================================================================

const selectIssueSQL = `SELECT id, column_id, rank, title, description, created_at, updated_at FROM issues`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIssue(row rowScanner) (*models.Issue, error) {
	issue := &models.Issue{}
	var id, columnID int64
	var r string
	err := row.Scan(&id, &columnID, &r, &issue.Title, &issue.Description, &issue.CreatedAt, &issue.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	issue.ID = types.IssueID(id)
	issue.ColumnID = types.ColumnID(columnID)
	issue.Rank = rank.Rank(r)
	return issue, nil
}

// GetIssue retrieves a single issue by ID
func (s *Store) GetIssue(ctx context.Context, issueID types.IssueID) (*models.Issue, error) {
	issue, err := scanIssue(s.db.QueryRowContext(ctx,
		s.dialect.rebind(selectIssueSQL+" WHERE id = ?"), int64(issueID)))
	if err != nil {
		return nil, fmt.Errorf("failed to get issue %d: %w", issueID, err)
	}
	return issue, nil
}

// GetIssuesByColumn retrieves all issues of a column in rank order
func (s *Store) GetIssuesByColumn(ctx context.Context, columnID types.ColumnID) ([]*models.Issue, error) {
	rows, err := s.db.QueryContext(ctx,
		s.dialect.rebind(selectIssueSQL+" WHERE column_id = ? ORDER BY "+s.dialect.rankOrder),
		int64(columnID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get issues of column %d: %w", columnID, err)
	}
	defer rows.Close()

	var issues []*models.Issue
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		issues = append(issues, issue)
	}
	return issues, rows.Err()
}

// DeleteIssue removes an issue. The rest of the column keeps its ranks:
// removing an element never disturbs the order of the others.
func (s *Store) DeleteIssue(ctx context.Context, issueID types.IssueID) error {
	result, err := s.db.ExecContext(ctx, s.dialect.rebind("DELETE FROM issues WHERE id = ?"), int64(issueID))
	if err != nil {
		return fmt.Errorf("failed to delete issue %d: %w", issueID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("issue %d: %w", issueID, ErrNotFound)
	}
	return nil
}
