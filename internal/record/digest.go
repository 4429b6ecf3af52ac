package record

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"lukechampine.com/blake3"
)

// FileDigest is the BLAKE3 digest of a requirements file at run time.
type FileDigest struct {
	Path    string `yaml:"path"`
	BLAKE3  string `yaml:"blake3,omitempty"`
	Missing bool   `yaml:"missing,omitempty"`
}

// DigestFiles hashes each path, resolved against dir. A file that does not
// exist is recorded as missing; the installer reports that error itself.
func DigestFiles(dir string, paths []string) ([]FileDigest, error) {
	digests := make([]FileDigest, 0, len(paths))
	for _, p := range paths {
		full := p
		if !filepath.IsAbs(full) {
			full = filepath.Join(dir, p)
		}
		sum, err := digestFile(full)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			digests = append(digests, FileDigest{Path: p, Missing: true})
		case err != nil:
			return nil, fmt.Errorf("failed to hash %s: %w", p, err)
		default:
			digests = append(digests, FileDigest{Path: p, BLAKE3: sum})
		}
	}
	return digests, nil
}

func digestFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := blake3.New(32, nil)
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// RequirementsUnchanged reports whether s describes a successful run whose
// requirements files hash to exactly current.
func (s *State) RequirementsUnchanged(current []FileDigest) bool {
	if !s.Succeeded || len(s.Requirements) == 0 || len(s.Requirements) != len(current) {
		return false
	}
	for i, d := range current {
		prev := s.Requirements[i]
		if d.Missing || prev.Missing || prev.Path != d.Path || prev.BLAKE3 != d.BLAKE3 {
			return false
		}
	}
	return true
}
