package record

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDigestFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "requirements.txt"), []byte("requests==2.31.0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	digests, err := DigestFiles(dir, []string{"requirements.txt", "docs/requirements.txt"})
	if err != nil {
		t.Fatalf("DigestFiles() error = %v", err)
	}
	if len(digests) != 2 {
		t.Fatalf("len = %d, want 2", len(digests))
	}
	if digests[0].Path != "requirements.txt" || len(digests[0].BLAKE3) != 64 || digests[0].Missing {
		t.Errorf("digests[0] = %+v", digests[0])
	}
	if !digests[1].Missing || digests[1].BLAKE3 != "" {
		t.Errorf("digests[1] = %+v, want missing", digests[1])
	}

	again, err := DigestFiles(dir, []string{"requirements.txt"})
	if err != nil {
		t.Fatal(err)
	}
	if again[0].BLAKE3 != digests[0].BLAKE3 {
		t.Error("digest is not deterministic")
	}
}

func TestDigestFiles_KnownVector(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "empty.txt"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	digests, err := DigestFiles(dir, []string{"empty.txt"})
	if err != nil {
		t.Fatal(err)
	}
	const emptyBLAKE3 = "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"
	if digests[0].BLAKE3 != emptyBLAKE3 {
		t.Errorf("BLAKE3(empty) = %s, want %s", digests[0].BLAKE3, emptyBLAKE3)
	}
}

func TestDigestFiles_DirectoryIsAnError(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "requirements.txt"), 0755); err != nil {
		t.Fatal(err)
	}

	if _, err := DigestFiles(dir, []string{"requirements.txt"}); err == nil {
		t.Error("DigestFiles() should fail on a directory")
	}
}

func TestState_RequirementsUnchanged(t *testing.T) {
	a := FileDigest{Path: "requirements.txt", BLAKE3: "aa"}
	b := FileDigest{Path: "requirements.txt", BLAKE3: "bb"}

	tests := []struct {
		name    string
		state   State
		current []FileDigest
		want    bool
	}{
		{"same", State{Succeeded: true, Requirements: []FileDigest{a}}, []FileDigest{a}, true},
		{"changed", State{Succeeded: true, Requirements: []FileDigest{a}}, []FileDigest{b}, false},
		{"previous run failed", State{Succeeded: false, Requirements: []FileDigest{a}}, []FileDigest{a}, false},
		{"no previous digests", State{Succeeded: true}, []FileDigest{a}, false},
		{"docs added", State{Succeeded: true, Requirements: []FileDigest{a}}, []FileDigest{a, a}, false},
		{"missing file", State{Succeeded: true, Requirements: []FileDigest{{Path: "r", Missing: true}}}, []FileDigest{{Path: "r", Missing: true}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.RequirementsUnchanged(tt.current); got != tt.want {
				t.Errorf("RequirementsUnchanged() = %v, want %v", got, tt.want)
			}
		})
	}
}
