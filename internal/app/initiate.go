package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/formgate/internal/pkg/action"
	"github.com/shandysiswandi/formgate/internal/pkg/clock"
	"github.com/shandysiswandi/formgate/internal/pkg/config"
	"github.com/shandysiswandi/formgate/internal/pkg/flash"
	"github.com/shandysiswandi/formgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/formgate/internal/pkg/instrument"
	"github.com/shandysiswandi/formgate/internal/pkg/router"
	"github.com/shandysiswandi/formgate/internal/pkg/uid"
	"github.com/shandysiswandi/formgate/internal/pkg/validationgate"
	"github.com/shandysiswandi/formgate/internal/pkg/validator"
)

const (
	flashDriverMemory = "memory"
	flashDriverRedis  = "redis"
)

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "/config/config.yaml"
		if os.Getenv("LOCAL") == "true" {
			path = "./config/config.yaml"
		}
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	if tz := cfg.GetString("app.tz"); tz != "" {
		//nolint:errcheck,gosec // ignore error
		os.Setenv("TZ", tz)
	}

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(a.ctx, &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
		LogLevel:         a.config.GetString("instrument.log_level"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))

	v, err := validator.NewV10Validator(
		validator.WithTagPrefix(a.config.GetString("validator.tag_prefix")),
		validator.WithGroups(a.config.GetArray("validator.groups")...),
	)
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = v
}

func (a *App) initCache() {
	url := strings.TrimSpace(a.config.GetString("redis.url"))
	if url == "" {
		if a.flashDriver() == flashDriverRedis {
			slog.Error("failed to init redis", "error", "redis.url is required by flash.driver redis")
			os.Exit(1)
		}
		return
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		slog.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(opt)

	b := retry.WithMaxRetries(5, retry.WithCappedDuration(2*time.Second, retry.NewFibonacci(200*time.Millisecond)))
	err = retry.Do(a.ctx, b, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		if err := rdb.Ping(pingCtx).Err(); err != nil {
			slog.WarnContext(ctx, "redis not ready, retrying", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	a.cacheConn = rdb
}

func (a *App) flashDriver() string {
	return strings.ToLower(strings.TrimSpace(a.config.GetString("flash.driver")))
}

func (a *App) initFlash() {
	ttl := a.config.GetSecond("flash.ttl_seconds")

	switch driver := a.flashDriver(); driver {
	case flashDriverRedis:
		a.flash = flash.NewRedis(a.cacheConn, a.uuid, ttl)
	case flashDriverMemory, "":
		mem := flash.NewMemory(a.clock, a.uuid, ttl)
		interval := a.config.GetSecond("flash.sweep_interval_seconds")
		if interval <= 0 {
			interval = time.Minute
		}
		if err := a.goroutine.Every(a.ctx, "flash.sweep", interval, mem.Sweep); err != nil {
			slog.Error("failed to schedule flash sweeper", "error", err)
			os.Exit(1)
		}
		a.flash = mem
	default:
		slog.Error("failed to init flash store", "error", "unknown driver", "driver", driver)
		os.Exit(1)
	}
}

func (a *App) sourcePageMode() action.SourcePageMode {
	switch mode := action.SourcePageMode(strings.ToLower(a.config.GetString("action.source_page.mode"))); mode {
	case action.SourcePageRender, action.SourcePageRedirect:
		return mode
	default:
		slog.Warn("unknown source page mode, falling back to render", "mode", mode)
		return action.SourcePageRender
	}
}

func (a *App) initHTTPServer() {
	dispatcher := action.NewDispatcher(action.DispatcherConfig{
		Interceptors:   []action.Interceptor{validationgate.New(a.validator, a.ins)},
		Flash:          a.flash,
		SourcePageMode: a.sourcePageMode(),
	})

	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		Instrument: a.ins,
		Dispatcher: dispatcher,
	})

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{router.HeaderCorrelationID},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Redis",
			fn: func(context.Context) error {
				if a.cacheConn == nil {
					return nil
				}
				return a.cacheConn.Close()
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
