package posts

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/postkeeper/internal/common"
	"github.com/dmitrijs2005/postkeeper/internal/dbx"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type fakePostsRepo struct {
	createOut *Post
	createErr error

	byIDOut *Post
	byIDErr error

	listOut   []*Post
	listTotal int64
	listErr   error

	byAuthorOut []*Post
	byAuthorErr error

	authorID    string
	authorIDErr error

	updateErr   error
	updateCalls int

	deleteErr   error
	deleteCalls int
}

func (f *fakePostsRepo) Create(ctx context.Context, p *Post) (*Post, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	p.ID = "p-new"
	return p, nil
}

func (f *fakePostsRepo) GetByID(ctx context.Context, id string) (*Post, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byIDOut, nil
}

func (f *fakePostsRepo) List(ctx context.Context, offset, limit int) ([]*Post, int64, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	return f.listOut, f.listTotal, nil
}

func (f *fakePostsRepo) ListByAuthor(ctx context.Context, authorID string) ([]*Post, error) {
	if f.byAuthorErr != nil {
		return nil, f.byAuthorErr
	}
	return f.byAuthorOut, nil
}

func (f *fakePostsRepo) GetAuthorID(ctx context.Context, q dbx.DBTX, id string) (string, error) {
	if f.authorIDErr != nil {
		return "", f.authorIDErr
	}
	return f.authorID, nil
}

func (f *fakePostsRepo) Update(ctx context.Context, q dbx.DBTX, p *Post) error {
	f.updateCalls++
	return f.updateErr
}

func (f *fakePostsRepo) Delete(ctx context.Context, q dbx.DBTX, id string) error {
	f.deleteCalls++
	return f.deleteErr
}

// --- Create ---

func TestCreate_SetsAuthor(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	repo := &fakePostsRepo{}
	s := NewService(db, repo)

	post, err := s.Create(context.Background(), "u-a", "Title", "Content", "")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if post.AuthorID != "u-a" {
		t.Fatalf("expected author u-a, got %q", post.AuthorID)
	}
}

// --- List ---

func TestList_SanitizesPageAndLimit(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	repo := &fakePostsRepo{listTotal: 25}
	s := NewService(db, repo)

	page, err := s.List(context.Background(), -3, 0)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if page.Page != 1 || page.Limit != defaultPageLimit {
		t.Fatalf("expected sanitized page=1 limit=%d, got page=%d limit=%d", defaultPageLimit, page.Page, page.Limit)
	}
	if page.TotalPages != 3 {
		t.Fatalf("expected 3 total pages for 25/10, got %d", page.TotalPages)
	}
}

func TestList_CapsLimit(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	s := NewService(db, &fakePostsRepo{})
	page, err := s.List(context.Background(), 1, 100000)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if page.Limit != maxPageLimit {
		t.Fatalf("expected capped limit %d, got %d", maxPageLimit, page.Limit)
	}
}

// --- ownership guard ---

func TestUpdate_OwnerSucceeds(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	repo := &fakePostsRepo{authorID: "u-a"}
	s := NewService(db, repo)

	err := s.Update(context.Background(), "u-a", &Post{ID: "p-1", Title: "t", Content: "c"})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if repo.updateCalls != 1 {
		t.Fatalf("expected one update, got %d", repo.updateCalls)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("tx expectations: %v", err)
	}
}

func TestUpdate_NotOwnerIsForbidden(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	repo := &fakePostsRepo{authorID: "u-a"}
	s := NewService(db, repo)

	err := s.Update(context.Background(), "u-b", &Post{ID: "p-1", Title: "t", Content: "c"})
	if !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("expected common.ErrorForbidden, got %v", err)
	}
	if repo.updateCalls != 0 {
		t.Fatalf("no write must happen when the guard fails")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("tx expectations: %v", err)
	}
}

func TestUpdate_MissingPostIsNotFound(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	repo := &fakePostsRepo{authorIDErr: common.ErrorNotFound}
	s := NewService(db, repo)

	err := s.Update(context.Background(), "u-b", &Post{ID: "ghost", Title: "t", Content: "c"})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
	if errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("missing post must not be reported as forbidden")
	}
}

func TestDelete_NotOwnerIsForbidden(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	repo := &fakePostsRepo{authorID: "u-a"}
	s := NewService(db, repo)

	err := s.Delete(context.Background(), "u-b", "p-1")
	if !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("expected common.ErrorForbidden, got %v", err)
	}
	if repo.deleteCalls != 0 {
		t.Fatalf("no delete must happen when the guard fails")
	}
}

func TestDelete_OwnerSucceeds(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	repo := &fakePostsRepo{authorID: "u-a"}
	s := NewService(db, repo)

	if err := s.Delete(context.Background(), "u-a", "p-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if repo.deleteCalls != 1 {
		t.Fatalf("expected one delete, got %d", repo.deleteCalls)
	}
}

func TestDelete_GuardRepoFailureIsInternal(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	repo := &fakePostsRepo{authorIDErr: errors.New("db down")}
	s := NewService(db, repo)

	err := s.Delete(context.Background(), "u-a", "p-1")
	if !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("expected common.ErrorInternal, got %v", err)
	}
}
