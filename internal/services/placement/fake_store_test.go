package placement

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/thenoetrevino/kanrank/internal/database"
	"github.com/thenoetrevino/kanrank/internal/models"
	"github.com/thenoetrevino/kanrank/internal/rank"
	"github.com/thenoetrevino/kanrank/internal/types"
)

// fakeStore is an in-memory Store. Transactions run one at a time on a copy
// of the issues and are applied only on success.
type fakeStore struct {
	mu      sync.Mutex
	columns map[types.ColumnID]bool
	issues  map[types.IssueID]models.Issue
	nextID  types.IssueID

	// conflicts makes the next n transactions fail at commit with ErrConflict
	conflicts int
	txCount   int
	batches   [][]models.RankUpdate
}

var _ Store = (*fakeStore)(nil)

func newFakeStore(columns ...types.ColumnID) *fakeStore {
	s := &fakeStore{
		columns: make(map[types.ColumnID]bool),
		issues:  make(map[types.IssueID]models.Issue),
	}
	for _, id := range columns {
		s.columns[id] = true
	}
	return s
}

// seed adds issues to a column with the given ranks and returns their ids
func (s *fakeStore) seed(columnID types.ColumnID, ranks ...rank.Rank) []types.IssueID {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]types.IssueID, len(ranks))
	for i, r := range ranks {
		s.nextID++
		s.issues[s.nextID] = models.Issue{ID: s.nextID, ColumnID: columnID, Rank: r, Title: fmt.Sprintf("issue %d", s.nextID)}
		ids[i] = s.nextID
	}
	return ids
}

// order returns the ids of a column's issues sorted by rank
func (s *fakeStore) order(columnID types.ColumnID) []types.IssueID {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []types.IssueID
	for _, ranked := range sortedColumn(s.issues, columnID) {
		ids = append(ids, ranked.ID)
	}
	return ids
}

func (s *fakeStore) rankOf(id types.IssueID) rank.Rank {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issues[id].Rank
}

func (s *fakeStore) RunInTx(ctx context.Context, fn func(tx database.OrderingTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	s.txCount++

	tx := &fakeTx{store: s, issues: maps.Clone(s.issues), nextID: s.nextID}
	if err := fn(tx); err != nil {
		return err
	}

	if s.conflicts > 0 {
		s.conflicts--
		return fmt.Errorf("failed to commit transaction: %w", database.ErrConflict)
	}

	s.issues = tx.issues
	s.nextID = tx.nextID
	s.batches = append(s.batches, tx.batches...)
	return nil
}

func (s *fakeStore) GetColumn(_ context.Context, columnID types.ColumnID) (*models.Column, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.columns[columnID] {
		return nil, database.ErrNotFound
	}
	return &models.Column{ID: columnID, Name: fmt.Sprintf("column %d", columnID)}, nil
}

func (s *fakeStore) GetIssuesByColumn(_ context.Context, columnID types.ColumnID) ([]*models.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var issues []*models.Issue
	for _, ranked := range sortedColumn(s.issues, columnID) {
		issue := s.issues[ranked.ID]
		issues = append(issues, &issue)
	}
	return issues, nil
}

// fakeTx implements database.OrderingTx against a private copy of the issues
type fakeTx struct {
	store   *fakeStore
	issues  map[types.IssueID]models.Issue
	nextID  types.IssueID
	locked  []types.ColumnID
	batches [][]models.RankUpdate
}

func (t *fakeTx) LockColumn(_ context.Context, columnID types.ColumnID) error {
	if !t.store.columns[columnID] {
		return fmt.Errorf("column %d: %w", columnID, database.ErrNotFound)
	}
	t.locked = append(t.locked, columnID)
	return nil
}

func (t *fakeTx) GetIssueForUpdate(_ context.Context, issueID types.IssueID) (*models.RankedIssue, types.ColumnID, error) {
	issue, ok := t.issues[issueID]
	if !ok {
		return nil, 0, fmt.Errorf("issue %d: %w", issueID, database.ErrNotFound)
	}
	return &models.RankedIssue{ID: issue.ID, Rank: issue.Rank}, issue.ColumnID, nil
}

func (t *fakeTx) ListColumnRanks(_ context.Context, columnID types.ColumnID) ([]models.RankedIssue, error) {
	return sortedColumn(t.issues, columnID), nil
}

func (t *fakeTx) WriteRanks(_ context.Context, updates []models.RankUpdate) error {
	for _, u := range updates {
		issue, ok := t.issues[u.IssueID]
		if !ok {
			return fmt.Errorf("issue %d: %w", u.IssueID, database.ErrNotFound)
		}
		issue.ColumnID = u.ColumnID
		issue.Rank = u.Rank
		t.issues[u.IssueID] = issue
	}
	if err := checkDistinct(t.issues); err != nil {
		return err
	}
	t.batches = append(t.batches, updates)
	return nil
}

func (t *fakeTx) InsertIssue(_ context.Context, issue *models.Issue) (*models.Issue, error) {
	if !t.store.columns[issue.ColumnID] {
		return nil, fmt.Errorf("column %d does not exist", issue.ColumnID)
	}
	t.nextID++
	created := *issue
	created.ID = t.nextID
	t.issues[created.ID] = created
	if err := checkDistinct(t.issues); err != nil {
		return nil, err
	}
	return &created, nil
}

func sortedColumn(issues map[types.IssueID]models.Issue, columnID types.ColumnID) []models.RankedIssue {
	var ranked []models.RankedIssue
	for _, issue := range issues {
		if issue.ColumnID == columnID {
			ranked = append(ranked, models.RankedIssue{ID: issue.ID, Rank: issue.Rank})
		}
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Rank < ranked[j].Rank })
	return ranked
}

// checkDistinct mirrors the (column_id, rank) unique index
func checkDistinct(issues map[types.IssueID]models.Issue) error {
	type key struct {
		column types.ColumnID
		rank   rank.Rank
	}
	seen := make(map[key]types.IssueID, len(issues))
	for _, issue := range issues {
		k := key{issue.ColumnID, issue.Rank}
		if other, ok := seen[k]; ok {
			return fmt.Errorf("issues %d and %d share rank %s: %w", other, issue.ID, issue.Rank, database.ErrConflict)
		}
		seen[k] = issue.ID
	}
	return nil
}
