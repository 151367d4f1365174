package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/thenoetrevino/kanrank/internal/models"
	"github.com/thenoetrevino/kanrank/internal/rank"
	"github.com/thenoetrevino/kanrank/internal/types"
)

// OrderingTx is the transactional handle the placement coordinator reads and
// writes column order through. Every call runs inside one database
// transaction; nothing is visible to other readers until it commits.
type OrderingTx interface {
	// LockColumn verifies the column exists and holds it against concurrent
	// placements until the transaction ends. Returns ErrNotFound if missing.
	LockColumn(ctx context.Context, columnID types.ColumnID) error

	// GetIssueForUpdate returns an issue's current column and rank, locking the row.
	// Returns ErrNotFound if missing.
	GetIssueForUpdate(ctx context.Context, issueID types.IssueID) (*models.RankedIssue, types.ColumnID, error)

	// ListColumnRanks returns a column's issues ordered by rank ascending
	ListColumnRanks(ctx context.Context, columnID types.ColumnID) ([]models.RankedIssue, error)

	// WriteRanks applies rank (and column) updates as one batch
	WriteRanks(ctx context.Context, updates []models.RankUpdate) error

	// InsertIssue creates a new issue row with the column and rank already set
	InsertIssue(ctx context.Context, issue *models.Issue) (*models.Issue, error)
}

// TxRunner opens transactions for callers that must not manage them directly
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(tx OrderingTx) error) error
}

// Store is the SQL-backed issue store
type Store struct {
	db      *sql.DB
	dialect dialect
}

// Compile-time verification that *Store implements TxRunner
var _ TxRunner = (*Store)(nil)

// Driver returns the name of the backing driver
func (s *Store) Driver() string {
	return s.dialect.name
}

// DB returns the underlying connection pool
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the connection pool
func (s *Store) Close() error {
	return s.db.Close()
}

// RunInTx executes fn within a database transaction.
// It rolls back on error or panic and commits on success. Driver errors that
// signal a lost race are wrapped with ErrConflict.
func (s *Store) RunInTx(ctx context.Context, fn func(tx OrderingTx) error) error {
	tx, err := s.db.BeginTx(ctx, s.dialect.txOptions)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", s.dialect.classify(err))
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	if err := fn(&orderingTx{tx: tx, dialect: s.dialect}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", s.dialect.classify(err))
	}
	return nil
}

// orderingTx implements OrderingTx over a *sql.Tx
type orderingTx struct {
	tx      *sql.Tx
	dialect dialect
}

func (t *orderingTx) LockColumn(ctx context.Context, columnID types.ColumnID) error {
	var id int64
	err := t.tx.QueryRowContext(ctx,
		t.dialect.rebind("SELECT id FROM columns WHERE id = ?"+t.dialect.lockSuffix),
		int64(columnID),
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("column %d: %w", columnID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to lock column %d: %w", columnID, t.dialect.classify(err))
	}
	return nil
}

func (t *orderingTx) GetIssueForUpdate(ctx context.Context, issueID types.IssueID) (*models.RankedIssue, types.ColumnID, error) {
	var columnID int64
	var r string
	err := t.tx.QueryRowContext(ctx,
		t.dialect.rebind("SELECT column_id, rank FROM issues WHERE id = ?"+t.dialect.lockSuffix),
		int64(issueID),
	).Scan(&columnID, &r)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, fmt.Errorf("issue %d: %w", issueID, ErrNotFound)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get issue %d: %w", issueID, t.dialect.classify(err))
	}
	return &models.RankedIssue{ID: issueID, Rank: rank.Rank(r)}, types.ColumnID(columnID), nil
}

func (t *orderingTx) ListColumnRanks(ctx context.Context, columnID types.ColumnID) ([]models.RankedIssue, error) {
	rows, err := t.tx.QueryContext(ctx,
		t.dialect.rebind("SELECT id, rank FROM issues WHERE column_id = ? ORDER BY "+t.dialect.rankOrder),
		int64(columnID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ranks of column %d: %w", columnID, t.dialect.classify(err))
	}
	defer rows.Close()

	var ranked []models.RankedIssue
	for rows.Next() {
		var id int64
		var r string
		if err := rows.Scan(&id, &r); err != nil {
			return nil, err
		}
		ranked = append(ranked, models.RankedIssue{ID: types.IssueID(id), Rank: rank.Rank(r)})
	}
	if err := rows.Err(); err != nil {
		return nil, t.dialect.classify(err)
	}
	return ranked, nil
}

// WriteRanks applies the updates in order. A batch of more than one row first
// parks every row on a temporary rank, so intermediate states never collide
// on the (column_id, rank) unique index.
func (t *orderingTx) WriteRanks(ctx context.Context, updates []models.RankUpdate) error {
	if len(updates) > 1 {
		park := t.dialect.rebind("UPDATE issues SET rank = ? WHERE id = ?")
		for _, u := range updates {
			if _, err := t.tx.ExecContext(ctx, park, parkedRank(u.IssueID), int64(u.IssueID)); err != nil {
				return fmt.Errorf("failed to park issue %d: %w", u.IssueID, t.dialect.classify(err))
			}
		}
	}

	write := t.dialect.rebind(
		`UPDATE issues
		 SET column_id = ?, rank = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`)
	for _, u := range updates {
		result, err := t.tx.ExecContext(ctx, write, int64(u.ColumnID), string(u.Rank), int64(u.IssueID))
		if err != nil {
			return fmt.Errorf("failed to write rank of issue %d: %w", u.IssueID, t.dialect.classify(err))
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected != 1 {
			return fmt.Errorf("issue %d: %w", u.IssueID, ErrNotFound)
		}
	}
	return nil
}

func (t *orderingTx) InsertIssue(ctx context.Context, issue *models.Issue) (*models.Issue, error) {
	var id int64
	err := t.tx.QueryRowContext(ctx,
		t.dialect.rebind(
			`INSERT INTO issues (column_id, rank, title, description)
			 VALUES (?, ?, ?, ?)
			 RETURNING id`),
		int64(issue.ColumnID), string(issue.Rank), issue.Title, issue.Description,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert issue: %w", t.dialect.classify(err))
	}

	// Retrieve the created issue to get timestamps
	return scanIssue(t.tx.QueryRowContext(ctx,
		t.dialect.rebind(selectIssueSQL+" WHERE id = ?"), id))
}

// parkedRank is a per-issue placeholder that sorts after every real rank
func parkedRank(id types.IssueID) string {
	return "~" + id.String()
}
