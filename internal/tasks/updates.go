package tasks

import (
	"fmt"

	"github.com/desertthunder/spotmp3/internal/models"
)

// ProgressUpdate represents a progress event during a conversion.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase, zero when unknown
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	FetchTrack Phase = iota
	FetchPlaylist
	FetchEntries
	DownloadTracks
	WritePlaylist
	RecordHistory
)

func (p Phase) String() string {
	switch p {
	case FetchTrack:
		return "fetch_track"
	case FetchPlaylist:
		return "fetch_playlist"
	case FetchEntries:
		return "fetch_entries"
	case DownloadTracks:
		return "download_tracks"
	case WritePlaylist:
		return "write_playlist"
	case RecordHistory:
		return "record_history"
	default:
		return ""
	}
}

func fetchTrackUpdate(id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTrack,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching track %s...", id),
	}
}

func fetchPlaylistUpdate(id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching playlist %s...", id),
	}
}

func foundPlaylistUpdate(pl *models.PlaylistSummary) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found playlist: %s (%d tracks)", pl.Name, pl.TrackCount),
		Data:    pl,
	}
}

func fetchEntriesUpdate(page, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchEntries,
		Step:    page,
		Message: fmt.Sprintf("Loaded page %d (%d tracks so far)...", page, count),
	}
}

func downloadStartUpdate(total int, dir string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadTracks,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Downloading %d tracks to %s...", total, dir),
	}
}

func downloadResultUpdate(step, total int, res models.ConversionResult) ProgressUpdate {
	if res.Succeeded() {
		return ProgressUpdate{
			Phase:   DownloadTracks,
			Step:    step,
			Total:   total,
			Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, res.Item.Label()),
			Data:    res,
		}
	}
	return ProgressUpdate{
		Phase:   DownloadTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %s", step, total, res.Item.Label(), res.Reason),
		Data:    res,
	}
}

func writePlaylistUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WritePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Wrote playlist file %s", path),
	}
}

func recordHistoryUpdate(id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RecordHistory,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Recorded conversion %s", id),
	}
}
