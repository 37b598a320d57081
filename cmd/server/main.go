package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"dj-lineup/internal/lineup"
	"dj-lineup/internal/platform/config"
	"dj-lineup/internal/platform/cors"
	"dj-lineup/internal/platform/logger"
	"dj-lineup/internal/platform/metrics"
	"dj-lineup/internal/platform/ratelimit"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = config.Load()

	port := config.GetEnv("PORT", "8082")
	lineupFile := config.GetEnv("LINEUP_FILE", "lineup.yaml")
	logLevel := config.GetEnv("LOG_LEVEL", "info")
	logFormat := config.GetEnv("LOG_FORMAT", "json")

	log := logger.New(logLevel, logFormat)

	src, err := loadLineup(log, lineupFile)
	if err != nil {
		log.Error("load lineup", "file", lineupFile, "error", err)
		os.Exit(1)
	}

	store, closeStore, err := openStore(log)
	if err != nil {
		log.Error("open likes store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	repo := lineup.NewRepositoryWithStore(store)
	svc := lineup.NewService(repo, src.Data, src.Location)
	met := metrics.New()
	h := lineup.NewHandler(svc, log, met)

	limiter := ratelimit.PerMinute(
		config.GetEnvInt("LIKES_RATE_PER_MINUTE", 30),
		config.GetEnvInt("LIKES_RATE_BURST", 10),
	).TrustProxy(config.GetEnvBool("TRUST_PROXY", false))
	done := make(chan struct{})
	go limiter.Run(done)

	r := chi.NewRouter()
	r.Use(logger.RequestLogger(log))
	r.Use(metrics.RequestMiddleware(met))
	r.Use(cors.Middleware(config.GetEnvList("CORS_ORIGINS", nil)))
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		met.Handler(func() {
			met.SetSets(svc.SetCount())
			if n, err := svc.TokenCount(r.Context()); err == nil {
				met.SetLikeTokens(n)
			} else {
				log.Warn("count like tokens", "error", err)
			}
		}).ServeHTTP(w, r)
	})
	r.Get("/manifest", h.GetManifest)
	r.Get("/manifest.webmanifest", h.GetManifest)
	r.Route("/api", func(r chi.Router) {
		r.Get("/", h.GetLineup)
		r.Get("/now", h.GetNow)
		r.Get("/rooms/{room}", h.GetRoom)
		r.Get("/search", h.Search)
		r.With(limiter.Middleware(met.IncRateLimited)).Post("/likes", h.SyncLikes)
	})

	addr := ":" + port
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("server starting",
		"port", port,
		"lineup_file", lineupFile,
		"title", src.Data.Meta.Title,
		"sets", len(src.Data.Sets),
		"log_level", logLevel,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	for sig := range sigCh {
		if sig != syscall.SIGHUP {
			break
		}
		next, err := loadLineup(log, lineupFile)
		if err != nil {
			log.Error("reload lineup, keeping the previous one", "file", lineupFile, "error", err)
			continue
		}
		svc.Replace(next.Data, next.Location)
		log.Info("lineup reloaded", "title", next.Data.Meta.Title, "sets", len(next.Data.Sets))
	}

	log.Info("shutdown signal received, draining connections")
	close(done)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}

// loadLineup parses the lineup file and logs what the loader noticed.
func loadLineup(log *slog.Logger, path string) (*lineup.Source, error) {
	src, err := lineup.LoadFile(path, time.Now())
	if err != nil {
		return nil, err
	}
	for _, rep := range src.Replaced {
		log.Warn("set replaced by an overlapping one",
			"room", rep.Dropped.Room,
			"dropped", rep.Dropped.DJ,
			"dropped_start", rep.Dropped.Start,
			"by", rep.By.DJ,
			"by_start", rep.By.Start,
		)
	}
	for _, hole := range src.Holes {
		log.Debug("hole in lineup",
			"room", hole.Gap.Room,
			"after", hole.Before,
			"before", hole.After,
			"start", hole.Gap.Start,
			"end", hole.Gap.End,
			"overlap", hole.Overlap,
		)
	}
	return src, nil
}

// openStore picks the likes backend from LIKES_STORE: memory, sqlite or redis.
func openStore(log *slog.Logger) (lineup.Store, func(), error) {
	kind := strings.ToLower(config.GetEnv("LIKES_STORE", "memory"))
	switch kind {
	case "memory":
		return lineup.NewInMemoryStore(), func() {}, nil
	case "sqlite":
		path := config.GetEnv("SQLITE_PATH", "likes.db")
		s, err := lineup.NewSQLiteStore(path)
		if err != nil {
			return nil, nil, err
		}
		log.Info("likes store", "kind", kind, "path", path)
		return s, closer(log, s), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     config.GetEnv("REDIS_ADDR", "localhost:6379"),
			Password: config.GetEnv("REDIS_PASSWORD", ""),
			DB:       config.GetEnvInt("REDIS_DB", 0),
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		ttl := config.GetEnvDuration("LIKES_TTL", lineup.DefaultLikesTTL)
		log.Info("likes store", "kind", kind, "ttl", ttl.String())
		return lineup.NewRedisStore(client, ttl), closer(log, client), nil
	default:
		return nil, nil, fmt.Errorf("unknown LIKES_STORE %q", kind)
	}
}

func closer(log *slog.Logger, c io.Closer) func() {
	return func() {
		if err := c.Close(); err != nil {
			log.Warn("close likes store", "error", err)
		}
	}
}
