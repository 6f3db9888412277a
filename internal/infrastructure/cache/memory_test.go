package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lecture-insight-team/lecture-insight/internal/domain/entities"
)

func TestMemoryRunStore_SaveAndFind(t *testing.T) {
	store := NewMemoryRunStore(time.Minute)
	ctx := context.Background()

	run := entities.NewAnalysisRun("https://cdn.example.com/rec.mp4", entities.RunMetadata{Topic: "Databases"})
	if err := store.Save(ctx, run); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.FindByID(ctx, run.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got.ID != run.ID || got.Status != entities.RunStatusQueued || got.Metadata.Topic != "Databases" {
		t.Errorf("stored run mismatch: %+v", got)
	}

	// Reads must return private copies
	got.Status = entities.RunStatusFailed
	again, err := store.FindByID(ctx, run.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if again.Status != entities.RunStatusQueued {
		t.Error("mutating a returned run leaked into the store")
	}
}

func TestMemoryRunStore_FindUnknown(t *testing.T) {
	store := NewMemoryRunStore(time.Minute)

	_, err := store.FindByID(context.Background(), "no-such-run")
	if !errors.Is(err, entities.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestMemoryRunStore_Expiry(t *testing.T) {
	store := NewMemoryRunStore(10 * time.Millisecond)
	ctx := context.Background()

	run := entities.NewAnalysisRun("", entities.RunMetadata{})
	if err := store.Save(ctx, run); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	time.Sleep(25 * time.Millisecond)

	if _, err := store.FindByID(ctx, run.ID); !errors.Is(err, entities.ErrRunNotFound) {
		t.Fatalf("expected expired run to be gone, got %v", err)
	}
}

func TestMemoryRunStore_Delete(t *testing.T) {
	store := NewMemoryRunStore(time.Minute)
	ctx := context.Background()

	run := entities.NewAnalysisRun("", entities.RunMetadata{})
	if err := store.Save(ctx, run); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Delete(ctx, run.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.FindByID(ctx, run.ID); !errors.Is(err, entities.ErrRunNotFound) {
		t.Fatalf("expected deleted run to be gone, got %v", err)
	}
}
