// package formatter renders list pages as CSV, Markdown or plain text and writes them to files
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/desertthunder/mylist/internal/models"
	"github.com/desertthunder/mylist/internal/shared"
)

// Format names accepted by [Render] and [WriteExport].
const (
	FormatText     = "text"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// Formats lists every supported format name.
var Formats = []string{FormatText, FormatCSV, FormatMarkdown, FormatJSON}

const timeLayout = time.RFC3339

// ExportToCSV converts a ListPage to CSV format with columns: ID, User, Content, Type, Created
func ExportToCSV(page *models.ListPage) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "User", "Content", "Type", "Created"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range page.Entries {
		record := []string{
			entry.ID,
			entry.UserID,
			entry.ContentID,
			entry.ContentType,
			formatTime(entry.CreatedAt),
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

// ExportToMarkdown converts a ListPage to a Markdown table headed by the user's ID.
func ExportToMarkdown(page *models.ListPage, userID string) ([]byte, error) {
	var buf bytes.Buffer

	title := "My List"
	if userID != "" {
		title = fmt.Sprintf("My List: %s", userID)
	}
	fmt.Fprintf(&buf, "# %s\n\n", title)
	fmt.Fprintf(&buf, "**Showing**: %d of %d\n\n", len(page.Entries), page.Count)

	if len(page.Entries) == 0 {
		buf.WriteString("_No entries._\n")
		return buf.Bytes(), nil
	}

	buf.WriteString("| # | Content | Type | Added |\n")
	buf.WriteString("|---|---------|------|-------|\n")
	for i, entry := range page.Entries {
		fmt.Fprintf(&buf, "| %d | %s | %s | %s |\n", i+1, escapeCell(entry.ContentID), escapeCell(entry.ContentType), formatTime(entry.CreatedAt))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a ListPage to plain text format
func ExportToText(page *models.ListPage) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Entries: %d of %d\n\n", len(page.Entries), page.Count)

	for i, entry := range page.Entries {
		fmt.Fprintf(&buf, "%d. %s (%s) [%s]\n", i+1, entry.ContentID, entry.ContentType, entry.ID)
	}

	return buf.Bytes(), nil
}

// Render converts page to the named format. An empty format means text.
func Render(page *models.ListPage, format, userID string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		return ExportToText(page)
	case FormatCSV:
		return ExportToCSV(page)
	case FormatMarkdown, "md":
		return ExportToMarkdown(page, userID)
	case FormatJSON:
		return shared.MarshalJSON(page, true)
	default:
		return nil, fmt.Errorf("%w: unknown format %q (expected one of %s)", shared.ErrInvalidFlag, format, strings.Join(Formats, ", "))
	}
}

// WriteExport renders page in format and writes it to path.
//
// Defaults to {userID}_list.{ext} as the filename.
func WriteExport(page *models.ListPage, format, userID, path string) (string, error) {
	data, err := Render(page, format, userID)
	if err != nil {
		return "", err
	}

	if path == "" {
		path = DefaultFilename(userID, format)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

// DefaultFilename returns {userID}_list.{ext} with characters unsafe in file names replaced.
func DefaultFilename(userID, format string) string {
	return fmt.Sprintf("%s_list.%s", fileBase(userID), extension(format))
}

func extension(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatCSV:
		return "csv"
	case FormatMarkdown, "md":
		return "md"
	case FormatJSON:
		return "json"
	default:
		return "txt"
	}
}

func fileBase(userID string) string {
	base := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, userID)
	if base == "" {
		return "mylist"
	}
	return base
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
