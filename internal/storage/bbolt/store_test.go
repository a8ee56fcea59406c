package bbolt

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/julianstephens/nowaste/internal/models"
	"github.com/julianstephens/nowaste/internal/storage"
)

var _ storage.Provider = (*Store)(nil)

func TestLoadBeforeInit(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nowaste.bolt"))
	if _, err := s.Load(); !errors.Is(err, storage.ErrNotInitialized) {
		t.Errorf("Load() error = %v, want ErrNotInitialized", err)
	}
}

func TestInitEmptySnapshot(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "data", "nowaste.bolt"))
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer s.Close()

	snap, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(snap.Tasks) != 0 || len(snap.Rewards) != 0 || snap.Score != 0 || snap.TaskIDCounter != 0 {
		t.Errorf("expected empty snapshot, got %+v", snap)
	}
	if snap.Tasks == nil || snap.Rewards == nil {
		t.Error("collections should be empty, not nil")
	}
}

func TestRoundTripAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nowaste.bolt")
	done, feeling := "2026-10-19", "smooth"
	want := models.Snapshot{
		Tasks: []models.Task{
			{ID: 2, Title: "b", Deadline: "2026-10-21", Priority: models.PriorityMedium},
			{ID: 1, Title: "a", Deadline: "2026-10-20", Priority: models.PriorityHigh, Completed: true, CompletedDate: &done, Feeling: &feeling},
		},
		Rewards:         []models.Reward{{ID: 1, Name: "walk", RequiredScore: 100}},
		Score:           7,
		TaskIDCounter:   2,
		RewardIDCounter: 1,
	}

	s := NewStore(path)
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := s.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := NewStore(path)
	defer reopened.Close()
	got, err := reopened.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestSaveBeforeOpen(t *testing.T) {
	if err := NewStore(filepath.Join(t.TempDir(), "x.bolt")).Save(models.Snapshot{}); err == nil {
		t.Error("Save without Init should fail")
	}
}
