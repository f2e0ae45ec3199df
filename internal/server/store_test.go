package server

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/playperu/ruleta/internal/database"
	"github.com/playperu/ruleta/internal/migrations"
	"github.com/playperu/ruleta/internal/ruleta"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Run(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	return db
}

func deadRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         "localhost:1",
		DialTimeout:  10 * time.Millisecond,
		ReadTimeout:  10 * time.Millisecond,
		WriteTimeout: 10 * time.Millisecond,
		MaxRetries:   -1,
	})
}

// sqlBackedStores returns every binding that runs on the libSQL file.
func sqlBackedStores(t *testing.T) map[string]Store {
	t.Helper()
	ctx := context.Background()

	stores := make(map[string]Store)
	for _, backend := range []string{"sqlite", "docs"} {
		s, err := NewStore(ctx, backend, openTestDB(t), nil)
		if err != nil {
			t.Fatalf("NewStore(%s): %v", backend, err)
		}
		stores[backend] = s
	}
	return stores
}

func TestStoreContract(t *testing.T) {
	alice := ruleta.SessionOwner("5f0c5a1e-6f0e-4f9b-9a51-0c1f2b3c4d5e")
	bob := ruleta.UserOwner("user-bob")

	for name, store := range sqlBackedStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			got, err := store.List(ctx, alice)
			if err != nil {
				t.Fatalf("List empty: %v", err)
			}
			if len(got) != 0 {
				t.Fatalf("List empty = %d questions, want 0", len(got))
			}

			first, err := store.Add(ctx, alice, "¿Cuál es tu canción favorita?", "Mi Mundo")
			if err != nil {
				t.Fatalf("Add first: %v", err)
			}
			if first.ID == "" {
				t.Error("Add returned empty id")
			}
			if first.CreatedAt.IsZero() {
				t.Error("Add returned zero CreatedAt")
			}
			if first.Owner != alice {
				t.Errorf("Owner = %+v, want %+v", first.Owner, alice)
			}

			second, err := store.Add(ctx, alice, "¿Qué te hace reír?", "Filosofía")
			if err != nil {
				t.Fatalf("Add second: %v", err)
			}
			if _, err := store.Add(ctx, bob, "¿Playa o montaña?", "Mi Mundo"); err != nil {
				t.Fatalf("Add bob: %v", err)
			}

			got, err = store.List(ctx, alice)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("List = %d questions, want 2", len(got))
			}
			if got[0].ID != second.ID || got[1].ID != first.ID {
				t.Errorf("List order = [%s %s], want newest first [%s %s]", got[0].ID, got[1].ID, second.ID, first.ID)
			}
			if got[1].Question != "¿Cuál es tu canción favorita?" || got[1].Category != "Mi Mundo" {
				t.Errorf("List[1] = %+v", got[1])
			}

			if err := store.Remove(ctx, bob, first.ID); !errors.Is(err, ruleta.ErrNotFound) {
				t.Errorf("Remove foreign id: err = %v, want ErrNotFound", err)
			}
			if err := store.Remove(ctx, alice, first.ID); err != nil {
				t.Fatalf("Remove: %v", err)
			}
			if err := store.Remove(ctx, alice, first.ID); !errors.Is(err, ruleta.ErrNotFound) {
				t.Errorf("Remove twice: err = %v, want ErrNotFound", err)
			}

			got, err = store.List(ctx, alice)
			if err != nil {
				t.Fatalf("List after remove: %v", err)
			}
			if len(got) != 1 || got[0].ID != second.ID {
				t.Errorf("List after remove = %+v, want only %s", got, second.ID)
			}

			got, err = store.List(ctx, bob)
			if err != nil {
				t.Fatalf("List bob: %v", err)
			}
			if len(got) != 1 || got[0].Owner != bob {
				t.Errorf("List bob = %+v, want one question owned by bob", got)
			}
		})
	}
}

func TestStoreRejectsUnknownOwnerKind(t *testing.T) {
	bad := ruleta.Owner{Kind: "robot", ID: "r2"}

	for name, store := range sqlBackedStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Add(context.Background(), bad, "q", "Mi Mundo")
			if !errors.Is(err, ruleta.ErrInvalidInput) {
				t.Errorf("Add: err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestNewStore(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	tests := []struct {
		backend string
		rdb     *redis.Client
		wantErr bool
	}{
		{backend: "sqlite"},
		{backend: "docs"},
		{backend: "redis", rdb: deadRedis()},
		{backend: "redis", wantErr: true},
		{backend: "mongo", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			s, err := NewStore(ctx, tt.backend, db, tt.rdb)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewStore: %v", err)
			}
			if s == nil {
				t.Fatal("nil store")
			}
		})
	}
}

func TestRedisStoreUnreachable(t *testing.T) {
	rdb := deadRedis()
	defer rdb.Close()

	store := NewRedisStore(rdb)
	ctx := context.Background()
	owner := ruleta.SessionOwner("s1")

	if _, err := store.List(ctx, owner); err == nil {
		t.Error("List: expected error")
	}
	if _, err := store.Add(ctx, owner, "q", "Mi Mundo"); err == nil {
		t.Error("Add: expected error")
	}
	if err := store.Remove(ctx, owner, "id"); err == nil || errors.Is(err, ruleta.ErrNotFound) {
		t.Errorf("Remove: err = %v, want a connection error", err)
	}
}

func TestAccountStore(t *testing.T) {
	accounts := NewAccountStore(openTestDB(t))
	ctx := context.Background()

	userID, err := accounts.CreateUser(ctx, "ana@example.com", "secreto123")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if _, err := accounts.CreateUser(ctx, "ana@example.com", "otro12345"); !errors.Is(err, errEmailTaken) {
		t.Errorf("duplicate CreateUser: err = %v, want errEmailTaken", err)
	}

	if _, err := accounts.Authenticate(ctx, "ana@example.com", "incorrecto"); !errors.Is(err, errInvalidCredentials) {
		t.Errorf("wrong password: err = %v, want errInvalidCredentials", err)
	}
	if _, err := accounts.Authenticate(ctx, "nadie@example.com", "secreto123"); !errors.Is(err, errInvalidCredentials) {
		t.Errorf("unknown email: err = %v, want errInvalidCredentials", err)
	}

	got, err := accounts.Authenticate(ctx, "ana@example.com", "secreto123")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got != userID {
		t.Errorf("Authenticate = %q, want %q", got, userID)
	}

	sessionID, err := accounts.CreateSession(ctx, userID)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	sess, err := accounts.UserFromSession(ctx, sessionID)
	if err != nil {
		t.Fatalf("UserFromSession: %v", err)
	}
	if sess.UserID != userID || sess.Email != "ana@example.com" {
		t.Errorf("UserFromSession = %+v", sess)
	}

	if err := accounts.DeleteSession(ctx, sessionID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := accounts.UserFromSession(ctx, sessionID); !errors.Is(err, ruleta.ErrNotFound) {
		t.Errorf("after DeleteSession: err = %v, want ErrNotFound", err)
	}
}
