// Package archive bundles record attachments into a single ZIP for the
// "download all files" admin flows. Each record contributes a folder
// named after its display identifier; a file that cannot be fetched is
// skipped, and the build fails only when nothing at all could be
// collected.
package archive

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// ErrNoFiles is returned when no file could be collected across all
// requested records.
var ErrNoFiles = errors.New("no files available")

// Entry is one candidate file for the archive. Open is invoked lazily
// during the build so a failed fetch costs nothing up front.
type Entry struct {
	Name string
	Open func(ctx context.Context) (io.ReadCloser, error)
}

// Source groups the candidate files of one record under its folder.
type Source struct {
	Folder  string
	Entries []Entry
}

// Build writes a ZIP of all collectable entries to w and returns how
// many files made it in. Entries are fetched one at a time; an
// individual fetch failure is logged and the file omitted. When zero
// files were collected the archive is abandoned with ErrNoFiles.
func Build(ctx context.Context, w io.Writer, sources []Source, logger zerolog.Logger) (int, error) {
	zw := zip.NewWriter(w)

	collected := 0
	for _, src := range sources {
		for _, entry := range src.Entries {
			if err := ctx.Err(); err != nil {
				return collected, err
			}
			if err := addEntry(ctx, zw, src.Folder, entry); err != nil {
				logger.Warn().
					Err(err).
					Str("folder", src.Folder).
					Str("file", entry.Name).
					Msg("skipping archive entry")
				continue
			}
			collected++
		}
	}

	if collected == 0 {
		return 0, ErrNoFiles
	}
	if err := zw.Close(); err != nil {
		return collected, fmt.Errorf("finalize archive: %w", err)
	}
	return collected, nil
}

func addEntry(ctx context.Context, zw *zip.Writer, folder string, entry Entry) error {
	rc, err := entry.Open(ctx)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", entry.Name, err)
	}
	defer rc.Close()

	name := entry.Name
	if folder != "" {
		name = folder + "/" + name
	}
	fw, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(fw, rc); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
