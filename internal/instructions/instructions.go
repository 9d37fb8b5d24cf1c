// Package instructions implements the Instruction Resolver of spec §4.4: it
// walks from a read target toward the base directory, collecting the first
// matching governance file per folder, and renders sections for any folder
// not yet provided this session.
package instructions

import (
	"os"
	"path/filepath"

	"github.com/lineage-mcp/lineage-mcp/internal/session"
)

// Found is one (folder, file) pair discovered while walking toward the
// base directory.
type Found struct {
	Folder string
	File   string
}

// Resolver discovers and renders instruction file sections.
type Resolver struct {
	baseDir   string
	fileNames []string
	state     *session.State
}

// New creates a Resolver rooted at baseDir, checking the given file names
// in priority order within each folder.
func New(baseDir string, fileNames []string, state *session.State) *Resolver {
	return &Resolver{baseDir: filepath.Clean(baseDir), fileNames: fileNames, state: state}
}

// ResolveFor walks from the parent of targetPath (or targetPath itself, if
// it is a directory) up toward the base directory, returning at most one
// instruction file per visited folder. If the session's clear count
// indicates a compaction occurred, the base directory's own instruction
// file is appended last.
func (r *Resolver) ResolveFor(targetPath string) []Found {
	var found []Found

	current := targetPath
	if info, err := os.Stat(targetPath); err == nil && !info.IsDir() {
		current = filepath.Dir(targetPath)
	}
	current = filepath.Clean(current)

	for {
		if current == r.baseDir {
			break
		}

		if file, ok := r.firstMatchIn(current); ok {
			found = append(found, Found{Folder: current, File: file})
		}

		parent := filepath.Dir(current)
		if parent == current {
			break // filesystem root
		}
		current = parent
	}

	if r.state.ShouldIncludeBaseInstructionFiles() {
		if file, ok := r.firstMatchIn(r.baseDir); ok {
			found = append(found, Found{Folder: r.baseDir, File: file})
		}
	}

	return found
}

func (r *Resolver) firstMatchIn(folder string) (string, bool) {
	for _, name := range r.fileNames {
		candidate := filepath.Join(folder, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// Emit renders sections for each entry in resolved not already provided
// this session, marking each rendered folder as provided. A file that
// exists but can't be read renders "[File Corrupted]" rather than being
// skipped.
func (r *Resolver) Emit(resolved []Found) string {
	var out string
	for _, f := range resolved {
		if r.state.IsFolderProvided(f.Folder) {
			continue
		}

		content, err := os.ReadFile(f.File)
		out += "\n[Appending " + f.File + "]\n"
		if err != nil {
			out += "[File Corrupted]"
		} else {
			out += string(content)
		}
		r.state.MarkFolderProvided(f.Folder)
	}
	return out
}

// IsInstructionFile reports whether path's base name matches one of the
// configured instruction file names.
func (r *Resolver) IsInstructionFile(path string) bool {
	name := filepath.Base(path)
	for _, n := range r.fileNames {
		if n == name {
			return true
		}
	}
	return false
}

// MarkIfInstructionFile marks targetFile's parent folder as provided if
// targetFile is itself an instruction file — prevents re-appending it on
// the very read/multi_read that already surfaced its content directly.
func (r *Resolver) MarkIfInstructionFile(targetFile string) {
	if r.IsInstructionFile(targetFile) {
		r.state.MarkFolderProvided(filepath.Dir(targetFile))
	}
}
