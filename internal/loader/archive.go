package loader

import (
	"archive/zip"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bhcwatch/y9c/internal/common"
	"github.com/bhcwatch/y9c/internal/parser"
)

// parseArchive reads every .txt/.csv member of a zip archive through the
// caret-delimited parser, filtered to the target institution. A corrupt
// archive is reported; a corrupt member is skipped with a log entry.
func parseArchive(zipPath, targetRSSD string) ([]parser.Row, error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", common.ErrCorruptInput, zipPath, err)
	}
	defer func() { _ = zr.Close() }()

	var rows []parser.Row
	for _, member := range zr.File {
		name := strings.ToLower(member.Name)
		if !strings.HasSuffix(name, ".txt") && !strings.HasSuffix(name, ".csv") {
			continue
		}

		rc, openErr := member.Open()
		if openErr != nil {
			slog.Warn("Failed to open archive member", "archive", zipPath, "member", member.Name, "error", openErr)
			continue
		}

		memberRows, parseErr := parser.Parse(rc, parser.Options{
			TargetRSSD: targetRSSD,
			Source:     member.Name,
		})
		_ = rc.Close()

		if parseErr != nil {
			slog.Warn("Failed to parse archive member", "archive", zipPath, "member", member.Name, "error", parseErr)
			continue
		}

		rows = append(rows, memberRows...)
	}

	return rows, nil
}
