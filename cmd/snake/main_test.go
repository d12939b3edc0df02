package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

func TestNewGameRecordsFinishedRun(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	defer store.Close()

	cfg := config.DefaultConfig()
	game, rec := newGame(cfg, 7, store, nil)
	if rec == nil {
		t.Fatal("recording is on by default, expected a recorder")
	}
	if lastRunLine(rec) != "" {
		t.Error("nothing finished yet, expected no last run")
	}

	game.Start(300, 400)
	for !game.Snapshot().GameOver {
		game.Tick()
	}

	line := lastRunLine(rec)
	if !strings.HasPrefix(line, "Last run #1: ") || !strings.Contains(line, "snake replay 1") {
		t.Errorf("lastRunLine() = %q", line)
	}
	runs, err := store.RecentRuns(10)
	if err != nil || len(runs) != 1 {
		t.Fatalf("expected one stored run, got %d (%v)", len(runs), err)
	}
}

func TestNewGameWithoutRecording(t *testing.T) {
	cfg := config.DefaultConfig()
	if _, rec := newGame(cfg, 1, nil, nil); rec != nil {
		t.Error("no store, expected no recorder")
	}

	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	defer store.Close()

	cfg.Storage.Record = false
	if _, rec := newGame(cfg, 1, store, nil); rec != nil {
		t.Error("recording disabled, expected no recorder")
	}
	if lastRunLine(nil) != "" {
		t.Error("no recorder, expected an empty line")
	}
}

func TestGameFactoryUsesSeedOnce(t *testing.T) {
	cfg := config.DefaultConfig()
	newGame := gameFactory(cfg, runtimeConfig(cfg, 42), nil, nil)

	if got := newGame().Seed(); got != 42 {
		t.Errorf("first game seed = %d, expected 42", got)
	}
	if got := newGame().Seed(); got == 42 {
		t.Error("later games should get a fresh seed")
	}
}
