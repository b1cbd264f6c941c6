package app

import (
	"context"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/formgate/internal/pkg/action"
	"github.com/shandysiswandi/formgate/internal/pkg/clock"
	"github.com/shandysiswandi/formgate/internal/pkg/config"
	"github.com/shandysiswandi/formgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/formgate/internal/pkg/instrument"
	"github.com/shandysiswandi/formgate/internal/pkg/router"
	"github.com/shandysiswandi/formgate/internal/pkg/uid"
	"github.com/shandysiswandi/formgate/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator *validator.V10Validator
	clock     clock.Clocker
	uuid      uid.StringID

	// resources
	cacheConn *redis.Client
	flash     action.FlashStore

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initCache()
	app.initFlash()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
