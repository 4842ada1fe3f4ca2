package main

import (
	"context"
	"crypto/tls"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"taskly-api/api"
	"taskly-api/board"
	"taskly-api/domain"
	"taskly-api/storage"
)

const (
	defaultColumns        = "todo,in-progress,done"
	defaultInProgress     = "in-progress"
	defaultStateFile      = "data/board.json"
	defaultPersistTimeout = 5 * time.Second
)

// persister is the storage surface main wires up: write-through for the
// board store plus the one-time load at startup.
type persister interface {
	board.Persister
	Load(ctx context.Context) (domain.PersistedBoard, bool, error)
}

func main() {
	if dbg, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil && dbg {
		log.SetLevel(log.DebugLevel)
	}

	columns := parseColumns(envOr("BOARD_COLUMNS", defaultColumns))
	if len(columns) == 0 {
		log.Fatal("BOARD_COLUMNS must name at least one column")
	}
	inProgress := domain.ColumnID(defaultInProgress)
	if v, ok := os.LookupEnv("IN_PROGRESS_COLUMN"); ok {
		inProgress = domain.ColumnID(strings.TrimSpace(v))
	}
	if inProgress != "" && !containsColumn(columns, inProgress) {
		log.Fatalf("IN_PROGRESS_COLUMN %q is not one of BOARD_COLUMNS", inProgress)
	}

	persistTimeout := defaultPersistTimeout
	if v := os.Getenv("PERSIST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			log.Fatalf("invalid PERSIST_TIMEOUT: %v", err)
		}
		persistTimeout = d
	}

	store := newPersister()
	logger := log.New()
	b := board.NewStore(columns, inProgress, store, logger, board.WithPersistTimeout(persistTimeout))

	loadCtx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	blob, ok, err := store.Load(loadCtx)
	cancel()
	if err != nil {
		logger.WithError(err).Warn("could not read persisted board; starting empty")
	}
	if ok {
		b.Hydrate(blob)
	}

	e := echo.New()
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	api.Register(e, b, logger)

	listenAddr := ":8080"
	if val, ok := os.LookupEnv("PORT"); ok {
		listenAddr = ":" + val
	}

	e.Logger.Fatal(e.Start(listenAddr))
}

// newPersister picks the board's storage backend: redis when a connection
// string is configured, a local JSON file otherwise.
func newPersister() persister {
	key := envOr("BOARD_STATE_KEY", storage.DefaultKey)

	redisConn := os.Getenv("REDIS_CONNECTION_STRING")
	if redisConn == "" {
		return storage.NewFileStore(envOr("BOARD_STATE_FILE", defaultStateFile))
	}

	redisOpts, err := redis.ParseURL(redisConn)
	if err != nil {
		parts := strings.Split(redisConn, ",")
		redisOpts = &redis.Options{Addr: parts[0]}
		for _, p := range parts[1:] {
			kv := strings.SplitN(p, "=", 2)
			if len(kv) != 2 {
				continue
			}
			switch strings.ToLower(kv[0]) {
			case "password":
				redisOpts.Password = kv[1]
			case "ssl":
				if strings.ToLower(kv[1]) == "true" {
					redisOpts.TLSConfig = &tls.Config{}
				}
			}
		}
	}
	return storage.NewRedisStore(redis.NewClient(redisOpts), key)
}

func parseColumns(raw string) []domain.ColumnID {
	out := make([]domain.ColumnID, 0, 4)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, domain.ColumnID(part))
	}
	return out
}

func containsColumn(columns []domain.ColumnID, id domain.ColumnID) bool {
	for _, c := range columns {
		if c == id {
			return true
		}
	}
	return false
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
