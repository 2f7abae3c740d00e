// package formatter renders conversion reports (CSV, Markdown, plain text) and writes M3U playlists
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/spotmp3/internal/models"
	"github.com/desertthunder/spotmp3/internal/shared"
)

// Report formats accepted by [WriteReport].
const (
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "txt"
)

// ReportToCSV converts a ConversionReport to CSV with columns: Position, Title, Artists, Album, Outcome, Reason, Path
func ReportToCSV(report *models.ConversionReport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Title", "Artists", "Album", "Outcome", "Reason", "Path"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, res := range report.Results {
		record := []string{
			strconv.Itoa(i + 1),
			res.Item.Title,
			res.Item.ArtistNames(),
			res.Item.Album,
			res.Outcome.String(),
			res.Reason,
			res.Path,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ReportToMarkdown converts a ConversionReport to Markdown
func ReportToMarkdown(report *models.ConversionReport) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", report.Name())
	fmt.Fprintf(&buf, "**Destination**: %s\n", report.Directory)
	fmt.Fprintf(&buf, "**Converted**: %d of %d\n", report.Succeeded(), len(report.Results))
	if report.Skipped > 0 {
		fmt.Fprintf(&buf, "**Skipped**: %d unavailable\n", report.Skipped)
	}
	buf.WriteString("\n## Tracks\n\n")

	for i, res := range report.Results {
		if res.Succeeded() {
			fmt.Fprintf(&buf, "%d. ✓ %s\n", i+1, res.Item.Label())
			continue
		}
		fmt.Fprintf(&buf, "%d. ✗ %s (%s)\n", i+1, res.Item.Label(), res.Reason)
	}

	return buf.Bytes()
}

// ReportToText converts a ConversionReport to plain text
func ReportToText(report *models.ConversionReport) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Conversion: %s\n", report.Name())
	fmt.Fprintf(&buf, "Destination: %s\n", report.Directory)
	fmt.Fprintf(&buf, "Succeeded: %d  Failed: %d  Skipped: %d\n\n", report.Succeeded(), report.Failed(), report.Skipped)

	for i, res := range report.Results {
		status := "OK"
		if !res.Succeeded() {
			status = "FAILED: " + res.Reason
		}
		fmt.Fprintf(&buf, "%d. %s [%s]\n", i+1, res.Item.Label(), status)
	}

	return buf.Bytes()
}

// TracksToText lists tracks one per line as "n. Title - Artists".
func TracksToText(name string, tracks []models.TrackSummary) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", name)
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(tracks))
	for i, track := range tracks {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, track.Label())
	}

	return buf.Bytes()
}

// WriteReport renders report in format and writes it to path.
func WriteReport(report *models.ConversionReport, format, path string) error {
	var (
		data []byte
		err  error
	)

	switch strings.ToLower(format) {
	case FormatCSV:
		data, err = ReportToCSV(report)
		if err != nil {
			return err
		}
	case FormatMarkdown, "md":
		data = ReportToMarkdown(report)
	case FormatText, "text":
		data = ReportToText(report)
	default:
		return fmt.Errorf("%w: unsupported report format %q", shared.ErrInvalidArgument, format)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// ToM3U renders the successful results as an extended M3U playlist.
//
// Paths are relative to the playlist file, which lives next to the tracks. Durations are unknown, so EXTINF uses -1.
func ToM3U(results []models.ConversionResult) []byte {
	var buf bytes.Buffer
	buf.WriteString("#EXTM3U\n")

	for _, res := range results {
		if !res.Succeeded() || res.Path == "" {
			continue
		}
		fmt.Fprintf(&buf, "#EXTINF:-1,%s - %s\n", res.Item.ArtistNames(), res.Item.Title)
		buf.WriteString(filepath.Base(res.Path))
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

// WriteM3U writes dir/<name>.m3u for the successful results and returns its path.
func WriteM3U(dir, name string, results []models.ConversionResult) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: playlist file needs a name", shared.ErrInvalidArgument)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	path := filepath.Join(dir, shared.SanitizeName(name)+".m3u")
	if err := os.WriteFile(path, ToM3U(results), 0644); err != nil {
		return "", fmt.Errorf("failed to write playlist file: %w", err)
	}
	return path, nil
}
