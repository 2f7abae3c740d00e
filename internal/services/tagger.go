package services

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/desertthunder/spotmp3/internal/models"
)

// ID3Tagger implements [Tagger] for MP3 files.
type ID3Tagger struct{}

// NewID3Tagger returns a tagger.
func NewID3Tagger() *ID3Tagger {
	return &ID3Tagger{}
}

// Tag writes title, artists and album frames to path. Files that are not MP3 are left untouched.
//
// album falls back to the track's own album when empty.
func (t *ID3Tagger) Tag(path string, track models.TrackSummary, album string) error {
	if !strings.EqualFold(filepath.Ext(path), ".mp3") {
		return nil
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open %s for tagging: %w", path, err)
	}
	defer tag.Close()

	if album == "" {
		album = track.Album
	}

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetTitle(track.Title)
	tag.SetArtist(track.ArtistNames())
	if album != "" {
		tag.SetAlbum(album)
	}
	if len(track.Artists) > 0 {
		tag.AddTextFrame(tag.CommonID("Band/Orchestra/Accompaniment"), id3v2.EncodingUTF8, track.Artists[0])
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("failed to save tags for %s: %w", path, err)
	}
	return nil
}
