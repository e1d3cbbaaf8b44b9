package tables

import (
	"errors"
	"github.com/google/uuid"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestProvenance(t *testing.T) {
	path := filepath.Join(t.TempDir(), RicciName+CSVExt)
	err := os.WriteFile(path, []byte("abc"), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	meta, err := Provenance(path)
	if err != nil {
		t.Fatal(err)
	}

	// BLAKE2b-256("abc")
	wantDigest := "bddd813c634239723171ef3fee98579b94964e3bb1cb3e427262c8c068d52319"
	digest, _ := Lookup(*meta, SourceDigest)
	if digest != wantDigest {
		t.Errorf("got digest %q, want %q", digest, wantDigest)
	}

	source, _ := Lookup(*meta, SourceKey)
	if source != path {
		t.Errorf("got source %q, want %q", source, path)
	}

	runID, _ := Lookup(*meta, RunIDKey)
	_, err = uuid.Parse(runID)
	if err != nil {
		t.Errorf("got run id %q: %v", runID, err)
	}

	other, err := Provenance(path)
	if err != nil {
		t.Fatal(err)
	}
	otherID, _ := Lookup(*other, RunIDKey)
	if otherID == runID {
		t.Error("got the same run id twice")
	}
}

func TestProvenance_Missing(t *testing.T) {
	_, err := Provenance(filepath.Join(t.TempDir(), "absent.csv"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("got error %v, want %v", err, fs.ErrNotExist)
	}
}

func TestIsMissing(t *testing.T) {
	for _, cell := range []string{"", "NA", "NaN", "nan", "<nil>"} {
		if !IsMissing(cell) {
			t.Errorf("IsMissing(%q) = false", cell)
		}
	}
	for _, cell := range []string{"0", "W", "none", " "} {
		if IsMissing(cell) {
			t.Errorf("IsMissing(%q) = true", cell)
		}
	}
}
