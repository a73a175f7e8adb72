// Package artifact captures read-only snapshots of the trained model
// artifact directory. Snapshots are attached to retrain jobs at
// creation and refreshed at finalize so a rollback has a concrete
// listing to revert to.
package artifact

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/courtsight-ai/courtsight/internal/domain"
)

// DefaultMaxEntries caps how many files a snapshot records.
const DefaultMaxEntries = 10

// Dir lists model artifact files under a directory.
type Dir struct {
	path       string
	maxEntries int
}

// NewDir creates a lister for the given artifact directory.
// maxEntries <= 0 uses DefaultMaxEntries.
func NewDir(path string, maxEntries int) *Dir {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Dir{path: path, maxEntries: maxEntries}
}

// Path returns the directory being observed.
func (d *Dir) Path() string { return d.path }

// Snapshot lists current artifact files, newest first, capped at the
// configured entry count. A missing directory yields an unavailable
// snapshot rather than an error — jobs must still be creatable before
// the first model has ever been trained.
func (d *Dir) Snapshot() domain.ArtifactSnapshot {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return domain.ArtifactSnapshot{Available: false, Artifacts: []domain.ArtifactFile{}}
	}

	files := make([]domain.ArtifactFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue // File vanished between ReadDir and Stat
		}
		files = append(files, domain.ArtifactFile{
			Name:       filepath.Base(entry.Name()),
			SizeBytes:  info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModifiedAt.After(files[j].ModifiedAt)
	})
	if len(files) > d.maxEntries {
		files = files[:d.maxEntries]
	}
	return domain.ArtifactSnapshot{Available: true, Artifacts: files}
}
