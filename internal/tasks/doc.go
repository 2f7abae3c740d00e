// Package tasks converts catalog tracks and playlists into local audio files with real-time progress reporting.
//
// # Operations
//
// The [Engine] interface defines two operations:
//
//  1. [Engine.Convert] : Convert a track or playlist reference
//     - Tracks go to the singles folder under the base directory
//     - Playlists are enumerated page by page (see [Converter.Entries]) before any download
//     - Entries without a track payload are skipped and counted
//
//  2. [Engine.ConvertTracks] : Convert already selected tracks, such as liked songs
//
// Each track is acquired independently. A failed download becomes a Failure result and the batch continues,
// so a report always has one result per track in playlist order.
//
// # Authorization
//
// When the session belongs to [ConvertOptions.AccountID], the session catalog is used so private playlists resolve.
// Otherwise the public catalog is used.
//
// # Concurrency
//
// Downloads run on a bounded errgroup pool sized by [ConverterOpts] Workers (or [ConvertOptions] Workers when set), optionally throttled by a [rate.Limiter].
//
// # Progress
//
// A [ProgressUpdate] carries the phase, step counters and a message. Sends are non-blocking,
// so a slow or absent reader drops updates rather than stalling downloads.
//
// # After Download
//
// Successful files are optionally ID3 tagged, listed in an M3U file, and recorded through a [HistoryRecorder].
// Errors from these steps are logged and never fail the conversion.
package tasks
