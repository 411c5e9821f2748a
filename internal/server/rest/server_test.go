package rest

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/postkeeper/internal/common"
	"github.com/dmitrijs2005/postkeeper/internal/cryptox"
	"github.com/dmitrijs2005/postkeeper/internal/dbx"
	"github.com/dmitrijs2005/postkeeper/internal/logging"
	"github.com/dmitrijs2005/postkeeper/internal/server/config"
	"github.com/dmitrijs2005/postkeeper/internal/server/media"
	"github.com/dmitrijs2005/postkeeper/internal/server/posts"
	"github.com/dmitrijs2005/postkeeper/internal/server/users"
)

const testSecret = "test-secret"

// --- in-memory users repository ---

type memUsersRepo struct {
	byID   map[string]*users.User
	seq    int
	writes int
}

func newMemUsersRepo() *memUsersRepo {
	return &memUsersRepo{byID: map[string]*users.User{}}
}

func (m *memUsersRepo) Create(ctx context.Context, u *users.User) (*users.User, error) {
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	m.seq++
	m.writes++
	u.ID = fmt.Sprintf("u-%d", m.seq)
	u.CreatedAt = time.Now()
	m.byID[u.ID] = u
	return u, nil
}

func (m *memUsersRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memUsersRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (m *memUsersRepo) UpdateProfile(ctx context.Context, id string, upd users.ProfileUpdate) (*users.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	m.writes++
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Bio != nil {
		u.Bio = *upd.Bio
	}
	return u, nil
}

func (m *memUsersRepo) UpdatePassword(ctx context.Context, id string, salt, hash []byte) error {
	u, ok := m.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	m.writes++
	u.Salt, u.PasswordHash = salt, hash
	return nil
}

func (m *memUsersRepo) addUser(id, email, password string) *users.User {
	salt := []byte("test-salt-test-salt-test-salt-32")
	u := &users.User{
		ID:           id,
		Email:        email,
		Name:         "User " + id,
		Salt:         salt,
		PasswordHash: cryptox.HashPassword([]byte(password), salt),
		CreatedAt:    time.Now(),
	}
	m.byID[id] = u
	return u
}

// --- in-memory posts repository ---

type memPostsRepo struct {
	byID   map[string]*posts.Post
	seq    int
	writes int
}

func newMemPostsRepo() *memPostsRepo {
	return &memPostsRepo{byID: map[string]*posts.Post{}}
}

func (m *memPostsRepo) Create(ctx context.Context, p *posts.Post) (*posts.Post, error) {
	m.seq++
	m.writes++
	p.ID = fmt.Sprintf("p-%d", m.seq)
	p.CreatedAt = time.Now()
	m.byID[p.ID] = p
	return p, nil
}

func (m *memPostsRepo) GetByID(ctx context.Context, id string) (*posts.Post, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return p, nil
}

func (m *memPostsRepo) sorted() []*posts.Post {
	result := make([]*posts.Post, 0, len(m.byID))
	for _, p := range m.byID {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result
}

func (m *memPostsRepo) List(ctx context.Context, offset, limit int) ([]*posts.Post, int64, error) {
	all := m.sorted()
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], int64(len(all)), nil
}

func (m *memPostsRepo) ListByAuthor(ctx context.Context, authorID string) ([]*posts.Post, error) {
	var result []*posts.Post
	for _, p := range m.sorted() {
		if p.AuthorID == authorID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *memPostsRepo) GetAuthorID(ctx context.Context, q dbx.DBTX, id string) (string, error) {
	p, ok := m.byID[id]
	if !ok {
		return "", common.ErrorNotFound
	}
	return p.AuthorID, nil
}

func (m *memPostsRepo) Update(ctx context.Context, q dbx.DBTX, p *posts.Post) error {
	existing, ok := m.byID[p.ID]
	if !ok {
		return common.ErrorNotFound
	}
	m.writes++
	existing.Title, existing.Content, existing.CoverKey = p.Title, p.Content, p.CoverKey
	return nil
}

func (m *memPostsRepo) Delete(ctx context.Context, q dbx.DBTX, id string) error {
	m.writes++
	delete(m.byID, id)
	return nil
}

// --- fixture ---

type testEnv struct {
	srv       *RESTServer
	ts        *httptest.Server
	usersRepo *memUsersRepo
	postsRepo *memPostsRepo
	mock      sqlmock.Sqlmock
	db        *sql.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		SecretKey:                   testSecret,
		AccessTokenValidityDuration: time.Hour,
		RequestTimeout:              5 * time.Second,
	}

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	uRepo := newMemUsersRepo()
	pRepo := newMemPostsRepo()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	srv, err := NewRESTServer(":0", logger,
		users.NewService(uRepo, cfg),
		posts.NewService(db, pRepo),
		media.NewService(cfg),
		cfg.SecretKey, cfg.RequestTimeout)
	if err != nil {
		t.Fatalf("NewRESTServer error: %v", err)
	}

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &testEnv{srv: srv, ts: ts, usersRepo: uRepo, postsRepo: pRepo, mock: mock, db: db}
}

func (e *testEnv) do(t *testing.T, method, path, token, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, e.ts.URL+path, reader)
	if err != nil {
		t.Fatalf("NewRequest error: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.ts.Client().Do(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	return resp
}
