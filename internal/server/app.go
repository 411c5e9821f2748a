// Package server initializes and runs the application server.
// It opens the datastore, applies migrations, wires the services,
// and runs the HTTP API with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/postkeeper/internal/logging"
	"github.com/dmitrijs2005/postkeeper/internal/server/config"
	"github.com/dmitrijs2005/postkeeper/internal/server/media"
	"github.com/dmitrijs2005/postkeeper/internal/server/posts"
	"github.com/dmitrijs2005/postkeeper/internal/server/rest"
	"github.com/dmitrijs2005/postkeeper/internal/server/shared/db"
	"github.com/dmitrijs2005/postkeeper/internal/server/users"
)

type App struct {
	config       *config.Config
	logger       logging.Logger
	userService  *users.Service
	postService  *posts.Service
	mediaService *media.Service
}

func NewApp(c *config.Config) (*App, error) {

	l := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(l)

	m, err := db.NewPostgresRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	us := users.NewService(m.Users(), c)
	ps := posts.NewService(m.Conn(), m.Posts())
	ms := media.NewService(c)

	return &App{config: c, logger: logger, userService: us, postService: ps, mediaService: ms}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startRESTServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := rest.NewRESTServer(app.config.EndpointAddr, app.logger,
		app.userService, app.postService, app.mediaService,
		app.config.SecretKey, app.config.RequestTimeout)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startRESTServer(ctx, cancelFunc)
	}()

	wg.Wait()

}
