package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	FetchEntries Phase = iota
	ExportEntries
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case FetchEntries:
		return "fetch_entries"
	case ExportEntries:
		return "export_entries"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func fetchingEntriesUpdate(step, total int, userID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchEntries,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching list for %s...", step, total, userID),
	}
}

func exportCompletedUpdate(step, total int, res UserExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportEntries,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d entries)", step, total, res.UserID, res.Entries),
		Data:    res,
	}
}

func exportFailedUpdate(step, total int, res UserExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportEntries,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.UserID, res.Error),
		Data:    res,
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Manifest written to %s", path),
	}
}
