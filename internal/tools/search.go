package tools

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Search implements the "search" handler of spec §4.6: glob pattern
// relative to the resolved path, filtering results still within the
// base directory.
//
// No library in the example pack offers `**` recursive-glob matching
// (Go's stdlib path/filepath.Match is single-segment only), so
// matchGlobSegments below is hand-rolled: split the pattern on `/` and
// walk the directory tree, matching each candidate's segments against
// the pattern's segments with `**` consuming zero or more path
// segments, mirroring Python's pathlib.Path.glob semantics from
// `original_source/tools/search_files.py`.
func (h *Handlers) Search(pattern, path string, newSession bool) string {
	h.recordCall(fmt.Sprintf("[search:%s]", pattern))

	if msg, interrupted := h.interruptGate(); interrupted {
		return msg
	}

	if newSession {
		h.State.TryNewSession()
	}

	full, err := h.resolveOrError(path)
	if err != nil {
		return err.Error()
	}

	info, statErr := os.Stat(full)
	if statErr != nil {
		return fmt.Sprintf("Error: Directory not found: %s", displayPath(path))
	}
	if !info.IsDir() {
		return fmt.Sprintf("Error: Path is not a directory: %s", path)
	}

	base := h.Guard.GetBaseDir()
	patternSegs := strings.Split(filepath.ToSlash(pattern), "/")

	var rels []string
	_ = filepath.WalkDir(full, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if p == full {
			return nil
		}
		rel, relErr := filepath.Rel(full, p)
		if relErr != nil {
			return nil
		}
		segs := strings.Split(filepath.ToSlash(rel), "/")
		if !matchGlobSegments(patternSegs, segs) {
			return nil
		}

		resolved, evalErr := filepath.EvalSymlinks(p)
		if evalErr != nil {
			resolved = filepath.Clean(p)
		}
		relToBase, relErr := filepath.Rel(base, resolved)
		if relErr != nil || relToBase == ".." || strings.HasPrefix(relToBase, ".."+string(filepath.Separator)) {
			return nil
		}
		rels = append(rels, relToBase)
		return nil
	})
	sort.Strings(rels)

	var output string
	if len(rels) == 0 {
		output = fmt.Sprintf("No files found matching pattern: %s", pattern)
	} else {
		lines := []string{fmt.Sprintf("Found %d file(s) matching '%s':", len(rels), pattern), ""}
		for _, rel := range rels {
			lines = append(lines, "- "+rel)
		}
		output = strings.Join(lines, "\n")
	}

	output += h.changedFilesTrailer()
	h.reportFilesTracked()
	return output
}

// matchGlobSegments matches a `/`-split glob pattern against a
// `/`-split candidate path. A "**" pattern segment matches zero or more
// candidate segments; any other segment matches exactly one candidate
// segment via filepath.Match (so `*`, `?`, `[...]` keep their normal
// single-segment meaning).
func matchGlobSegments(pattern, path []string) bool {
	if len(pattern) == 0 {
		return len(path) == 0
	}
	if pattern[0] == "**" {
		for i := 0; i <= len(path); i++ {
			if matchGlobSegments(pattern[1:], path[i:]) {
				return true
			}
		}
		return false
	}
	if len(path) == 0 {
		return false
	}
	ok, err := filepath.Match(pattern[0], path[0])
	if err != nil || !ok {
		return false
	}
	return matchGlobSegments(pattern[1:], path[1:])
}
