package db

import (
	"context"
	"path/filepath"
	"testing"
)

type testModel struct {
	ID   int
	Name string
}

func TestNewMigratesAndPings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device.db")
	client, err := New(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	if err := client.Migrate(ctx, &testModel{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if err := client.DB().Create(&testModel{Name: "kept"}).Error; err != nil {
		t.Fatalf("create failed: %v", err)
	}

	var count int64
	if err := client.DB().Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record, got %d", count)
	}
	if err := client.Ping(ctx); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
}

func TestNewRequiresPath(t *testing.T) {
	if _, err := New(context.Background(), "  ", nil); err == nil {
		t.Fatal("expected empty path to be rejected")
	}
}
