package store

import (
	"fmt"
	"testing"
)

func TestApplyStoresFirstCapture(t *testing.T) {
	s := memStore()

	outcome := mustApply(t, s, "main", []byte("diff --git a/x b/x\n"), 10, "", at(9, 0, 0))
	if outcome.Result != Stored {
		t.Errorf("expected Stored, got %v", outcome.Result)
	}
	if outcome.File != "20250114-090000.patch" {
		t.Errorf("unexpected file name: %s", outcome.File)
	}
	if len(outcome.Evicted) != 0 {
		t.Errorf("expected no evictions, got %v", outcome.Evicted)
	}

	data, err := s.Read("main", outcome.File)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(data) != "diff --git a/x b/x\n" {
		t.Errorf("stored payload mangled: %q", data)
	}
}

func TestApplyDiscardsDuplicateOfNewest(t *testing.T) {
	s := memStore()

	first := mustApply(t, s, "main", []byte("same"), 10, "", at(9, 0, 0))
	outcome := mustApply(t, s, "main", []byte("same"), 10, "", at(10, 0, 0))

	if outcome.Result != Discarded {
		t.Errorf("expected Discarded, got %v", outcome.Result)
	}
	if outcome.File != first.File {
		t.Errorf("expected duplicate to name %s, got %s", first.File, outcome.File)
	}

	snaps, _ := s.List("main")
	if len(snaps) != 1 {
		t.Errorf("expected 1 snapshot after duplicate, got %d", len(snaps))
	}
}

func TestApplyDuplicateIsIdempotent(t *testing.T) {
	s := memStore()

	mustApply(t, s, "main", []byte("same"), 10, "", at(9, 0, 0))
	for i := 0; i < 5; i++ {
		mustApply(t, s, "main", []byte("same"), 10, "", at(10, i, 0))
	}

	snaps, _ := s.List("main")
	if len(snaps) != 1 {
		t.Errorf("expected repeated duplicates to store nothing, got %d snapshots", len(snaps))
	}
}

func TestApplyOnlyNewestConsultedForDuplicates(t *testing.T) {
	s := memStore()

	mustApply(t, s, "main", []byte("alpha"), 10, "", at(9, 0, 0))
	mustApply(t, s, "main", []byte("beta"), 10, "", at(10, 0, 0))
	outcome := mustApply(t, s, "main", []byte("alpha"), 10, "", at(11, 0, 0))

	if outcome.Result != Stored {
		t.Errorf("capture matching an older snapshot should store, got %v", outcome.Result)
	}

	snaps, _ := s.List("main")
	if len(snaps) != 3 {
		t.Errorf("expected 3 snapshots, got %d", len(snaps))
	}
}

func TestApplyEvictsOldestAtCapacity(t *testing.T) {
	s := memStore()

	for i := 0; i < 3; i++ {
		mustApply(t, s, "main", []byte(fmt.Sprintf("capture %d", i)), 3, "", at(9, i, 0))
	}

	outcome := mustApply(t, s, "main", []byte("capture 3"), 3, "", at(10, 0, 0))
	if outcome.Result != StoredAfterEviction {
		t.Errorf("expected StoredAfterEviction, got %v", outcome.Result)
	}
	if len(outcome.Evicted) != 1 || outcome.Evicted[0] != "20250114-090000.patch" {
		t.Errorf("expected oldest evicted, got %v", outcome.Evicted)
	}

	snaps, _ := s.List("main")
	if len(snaps) != 3 {
		t.Errorf("expected cap of 3 held, got %d", len(snaps))
	}
	if snaps[0].Name != "20250114-090100.patch" {
		t.Errorf("expected second-oldest to survive, got %s", snaps[0].Name)
	}
	if snaps[len(snaps)-1].Name != "20250114-100000.patch" {
		t.Errorf("expected fresh capture newest, got %s", snaps[len(snaps)-1].Name)
	}
}

func TestApplyEvictionIsByAgeNotContent(t *testing.T) {
	s := memStore()

	// The oldest entry matches the incoming capture byte for byte, but only
	// the newest is consulted for deduplication, so it is evicted like any
	// other oldest entry.
	mustApply(t, s, "main", []byte("repeat"), 2, "", at(9, 0, 0))
	mustApply(t, s, "main", []byte("other"), 2, "", at(10, 0, 0))
	outcome := mustApply(t, s, "main", []byte("repeat"), 2, "", at(11, 0, 0))

	if outcome.Result != StoredAfterEviction {
		t.Errorf("expected StoredAfterEviction, got %v", outcome.Result)
	}
	if len(outcome.Evicted) != 1 || outcome.Evicted[0] != "20250114-090000.patch" {
		t.Errorf("expected oldest evicted, got %v", outcome.Evicted)
	}
}

func TestApplyEvictsDownToCapAfterLimitLowered(t *testing.T) {
	s := memStore()

	for i := 0; i < 5; i++ {
		mustApply(t, s, "main", []byte(fmt.Sprintf("capture %d", i)), 10, "", at(9, i, 0))
	}

	outcome := mustApply(t, s, "main", []byte("capture 5"), 2, "", at(10, 0, 0))
	if len(outcome.Evicted) != 4 {
		t.Errorf("expected 4 evictions to honor the lowered cap, got %v", outcome.Evicted)
	}

	snaps, _ := s.List("main")
	if len(snaps) != 2 {
		t.Errorf("expected 2 snapshots after lowered cap, got %d", len(snaps))
	}
	if snaps[1].Name != "20250114-100000.patch" {
		t.Errorf("expected fresh capture kept, got %v", snaps)
	}
}

func TestApplyEmptyCapture(t *testing.T) {
	s := memStore()

	outcome := mustApply(t, s, "main", []byte{}, 10, "", at(9, 0, 0))
	if outcome.Result != Stored {
		t.Errorf("expected empty capture stored, got %v", outcome.Result)
	}

	outcome = mustApply(t, s, "main", []byte{}, 10, "", at(10, 0, 0))
	if outcome.Result != Discarded {
		t.Errorf("expected second empty capture discarded, got %v", outcome.Result)
	}
}

func TestApplyLabelInFileName(t *testing.T) {
	s := memStore()

	outcome := mustApply(t, s, "main", []byte("x"), 10, "before-rebase", at(9, 30, 5))
	if outcome.File != "20250114-093005-before-rebase.patch" {
		t.Errorf("unexpected file name: %s", outcome.File)
	}

	snaps, _ := s.List("main")
	if len(snaps) != 1 || snaps[0].Label != "before-rebase" {
		t.Errorf("label not recovered from listing: %+v", snaps)
	}
}

func TestApplySameSecondOverwrites(t *testing.T) {
	s := memStore()

	mustApply(t, s, "main", []byte("first"), 10, "", at(9, 0, 0))
	outcome := mustApply(t, s, "main", []byte("second"), 10, "", at(9, 0, 0))

	snaps, _ := s.List("main")
	if len(snaps) != 1 {
		t.Fatalf("expected same-second captures to collapse, got %d", len(snaps))
	}

	data, _ := s.Read("main", outcome.File)
	if string(data) != "second" {
		t.Errorf("expected last write to win, got %q", data)
	}
}

func TestApplyRejectsNonPositiveCap(t *testing.T) {
	s := memStore()

	if _, err := s.Apply("main", []byte("x"), 0, "", at(9, 0, 0)); err == nil {
		t.Error("expected error for cap 0")
	}
	if _, err := s.Apply("main", []byte("x"), -1, "", at(9, 0, 0)); err == nil {
		t.Error("expected error for negative cap")
	}
}

func TestApplyBranchesAreIndependent(t *testing.T) {
	s := memStore()

	mustApply(t, s, "main", []byte("same"), 10, "", at(9, 0, 0))
	outcome := mustApply(t, s, "feature/x", []byte("same"), 10, "", at(10, 0, 0))

	if outcome.Result != Stored {
		t.Errorf("identical capture on another branch should store, got %v", outcome.Result)
	}

	mainSnaps, _ := s.List("main")
	featSnaps, _ := s.List("feature/x")
	if len(mainSnaps) != 1 || len(featSnaps) != 1 {
		t.Errorf("expected 1 snapshot per branch, got %d and %d", len(mainSnaps), len(featSnaps))
	}
}
