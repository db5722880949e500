package db

import (
	"context"
	"testing"

	"github.com/hpungsan/callsnap/internal/config"
	"github.com/hpungsan/callsnap/internal/store"
)

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	cfg := config.DefaultConfig()
	cfg.Store = config.StoreMemory
	s, err := OpenStore(ctx, cfg, t.TempDir())
	if err != nil {
		t.Fatalf("OpenStore(memory) error = %v", err)
	}
	if _, ok := s.(*store.Memory); !ok {
		t.Errorf("OpenStore(memory) = %T, want *store.Memory", s)
	}

	cfg.Store = config.StoreSQLite
	s, err = OpenStore(ctx, cfg, t.TempDir())
	if err != nil {
		t.Fatalf("OpenStore(sqlite) error = %v", err)
	}
	defer s.Close()
	if _, ok := s.(*SQLiteStore); !ok {
		t.Errorf("OpenStore(sqlite) = %T, want *SQLiteStore", s)
	}

	cfg.Store = "redis"
	if _, err := OpenStore(ctx, cfg, t.TempDir()); err == nil {
		t.Error("OpenStore(redis) expected error")
	}
}
