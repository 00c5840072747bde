package usecase

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ternsnip/internal/adapter/defs"
	"ternsnip/internal/domain"
	"ternsnip/internal/port"
)

// IndexUseCase catalogs the function definitions found in Tern definition
// files together with their snippets.
type IndexUseCase struct {
	store    port.DefinitionStore
	walker   port.FileWalker
	reader   port.FileReader
	expander port.Expander
	logger   *slog.Logger
}

func NewIndexUseCase(
	store port.DefinitionStore,
	walker port.FileWalker,
	reader port.FileReader,
	expander port.Expander,
	logger *slog.Logger,
) *IndexUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &IndexUseCase{
		store:    store,
		walker:   walker,
		reader:   reader,
		expander: expander,
		logger:   logger,
	}
}

// IndexResult contains the results of an indexing operation.
type IndexResult struct {
	FilesIndexed int
	FilesSkipped int
	FilesDeleted int
	DefsStored   int
	Snippets     int
	Errors       []string
}

// ProgressFunc is called after each file is processed.
type ProgressFunc func(processed, total int, currentFile string)

// Index catalogs definition files below root. Files whose modification
// time has not advanced since the last run are skipped, and files that
// disappeared are removed from the catalog.
func (u *IndexUseCase) Index(root string, progress ProgressFunc) (*IndexResult, error) {
	result := &IndexResult{}

	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	origins, err := u.store.ListOrigins()
	if err != nil {
		return nil, fmt.Errorf("failed to list existing origins: %w", err)
	}
	existing := make(map[string]domain.Origin, len(origins))
	for _, o := range origins {
		existing[o.Path] = o
	}

	seen := make(map[string]bool, len(files))
	for i, file := range files {
		seen[file.Path] = true

		if o, ok := existing[file.Path]; ok && o.ModTime.Unix() >= file.ModTime {
			result.FilesSkipped++
			u.logger.Debug("unchanged definition file", "path", file.Path)
		} else if err := u.indexFile(file, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to index %s: %v", file.Path, err))
			u.logger.Warn("failed to index definition file", "path", file.Path, "error", err)
		} else {
			result.FilesIndexed++
		}

		if progress != nil {
			progress(i+1, len(files), file.Path)
		}
	}

	for path := range existing {
		if seen[path] {
			continue
		}
		if err := u.store.DeleteOrigin(path); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to delete %s: %v", path, err))
			continue
		}
		result.FilesDeleted++
	}

	return result, nil
}

func (u *IndexUseCase) indexFile(file port.FileInfo, result *IndexResult) error {
	content, err := u.reader.ReadFile(file.Path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	found, err := defs.Extract(strings.NewReader(content), file.Path)
	if err != nil {
		return err
	}

	for i := range found {
		snip, ok := u.expander.Expand(found[i].Signature)
		if !ok {
			continue
		}
		found[i].Snippet = snip
		result.Snippets++
	}

	if err := u.store.PutDefinitions(file.Path, time.Unix(file.ModTime, 0), found); err != nil {
		return fmt.Errorf("failed to store definitions: %w", err)
	}

	result.DefsStored += len(found)
	u.logger.Debug("indexed definition file", "path", file.Path, "defs", len(found))
	return nil
}
