package server

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/playperu/ruleta/internal/ruleta"
)

// Store is a custom question binding. The three bindings share semantics:
// owner-scoped rows, newest first, remove limited to the owner's rows.
type Store interface {
	ruleta.QuestionStore
}

const timeLayout = "2006-01-02T15:04:05.000Z"

// NewStore picks the binding named by backend. The sqlite binding expects
// migrations to have been applied to db.
func NewStore(ctx context.Context, backend string, db *sql.DB, rdb *redis.Client) (Store, error) {
	switch backend {
	case "sqlite":
		return NewSQLiteStore(db), nil
	case "docs":
		return NewDocStore(ctx, db)
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("redis store: no redis client")
		}
		return NewRedisStore(rdb), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

func newID() string {
	return uuid.NewString()
}

func nowUTC() string {
	return time.Now().UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}
