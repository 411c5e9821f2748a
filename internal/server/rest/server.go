// Package rest exposes the public HTTP API: token issuance, post CRUD with
// ownership checks, profile management, and presigned media URLs.
package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/postkeeper/internal/logging"
	"github.com/dmitrijs2005/postkeeper/internal/server/media"
	"github.com/dmitrijs2005/postkeeper/internal/server/posts"
	"github.com/dmitrijs2005/postkeeper/internal/server/users"
)

type RESTServer struct {
	address        string
	logger         logging.Logger
	users          *users.Service
	posts          *posts.Service
	media          *media.Service
	jwtSecret      []byte
	requestTimeout time.Duration
}

func NewRESTServer(a string, l logging.Logger, us *users.Service, ps *posts.Service, ms *media.Service,
	secretKey string, requestTimeout time.Duration) (*RESTServer, error) {
	return &RESTServer{
		address:        a,
		logger:         l.With("module", "rest_server"),
		users:          us,
		posts:          ps,
		media:          ms,
		jwtSecret:      []byte(secretKey),
		requestTimeout: requestTimeout,
	}, nil
}

// Handler builds the router. Reads of the public feed and of a single post
// need no token; every mutation and every subject-scoped read is behind the
// auth middleware.
func (s *RESTServer) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(s.requestTimeout))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/user/signup", s.handleSignUp)
		r.Post("/user/signin", s.handleSignIn)

		r.Get("/blog/bulk", s.handleListPosts)
		r.Get("/blog/{id}", s.handleGetPost)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/user", s.handleProfile)
			r.Put("/user", s.handleUpdateProfile)
			r.Put("/user/change-password", s.handleChangePassword)

			r.Post("/blog", s.handleCreatePost)
			r.Put("/blog", s.handleUpdatePost)
			r.Delete("/blog/{id}", s.handleDeletePost)
			r.Get("/blog/my/posts", s.handleMyPosts)

			r.Post("/media/upload-url", s.handleUploadURL)
			r.Get("/media/view-url", s.handleViewURL)
		})
	})

	return r
}

func (s *RESTServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *RESTServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
