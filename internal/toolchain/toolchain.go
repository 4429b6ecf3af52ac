// Package toolchain locates the interpreter used to run installer tooling
// and derives its version.
package toolchain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultCandidate is the interpreter used when -P is not given.
const DefaultCandidate = "python3"

// versionPattern matches self-reported versions such as "Python 3.11.4".
// Anything after the patch number is ignored ("3.13.0rc1", "3.12.1+").
var versionPattern = regexp.MustCompile(`^(\S+) (\d+)\.(\d+)\.(\d+)`)

// Handle is a resolved, validated toolchain. It is immutable once built.
type Handle struct {
	Executable string // absolute or PATH-resolved executable
	Name       string // first word of the version output, e.g. "Python"
	Major      int
	Minor      int
	Patch      int
}

// Series returns "<major>.<minor>", the key used for version-specific paths.
func (h *Handle) Series() string {
	return fmt.Sprintf("%d.%d", h.Major, h.Minor)
}

// Version returns "<major>.<minor>.<patch>".
func (h *Handle) Version() string {
	return fmt.Sprintf("%d.%d.%d", h.Major, h.Minor, h.Patch)
}

// DisplayName returns a human-readable name such as "Python 3.11.4".
func (h *Handle) DisplayName() string {
	name := cases.Title(language.English).String(strings.ToLower(h.Name))
	return name + " " + h.Version()
}

// ParsedVersion is the result of parsing a version banner.
type ParsedVersion struct {
	Name  string
	Major int
	Minor int
	Patch int
}

// ParseVersion parses the first non-empty line of output against the
// "<word> <major>.<minor>.<patch>" pattern.
func ParseVersion(output string) (*ParsedVersion, error) {
	line := firstLine(output)
	match := versionPattern.FindStringSubmatch(line)
	if match == nil {
		return nil, fmt.Errorf("version output %q does not match \"<word> <major>.<minor>.<patch>\"", line)
	}

	// Atoi can only fail on overflow; the regex guarantees digits.
	nums := make([]int, 3)
	for i := range nums {
		n, err := strconv.Atoi(match[i+2])
		if err != nil {
			return nil, fmt.Errorf("version component %q: %w", match[i+2], err)
		}
		nums[i] = n
	}

	return &ParsedVersion{
		Name:  match[1],
		Major: nums[0],
		Minor: nums[1],
		Patch: nums[2],
	}, nil
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
