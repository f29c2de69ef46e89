package ytdlp

import (
	"encoding/json"
	"fmt"

	"github.com/aaaronmiller/ripit/internal/segment"
)

// Metadata is the resolved description of one media item.
type Metadata struct {
	ID          string
	Title       string
	Description string
	Chapters    []segment.Chapter
}

// metadataJSON mirrors the fields of yt-dlp --dump-json output we consume.
type metadataJSON struct {
	ID          string        `json:"id"`
	Type        string        `json:"_type"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Chapters    []chapterJSON `json:"chapters"`
}

type chapterJSON struct {
	StartTime float64  `json:"start_time"`
	EndTime   *float64 `json:"end_time"`
	Title     string   `json:"title"`
}

// parseMetadata decodes one --dump-json document.
//
// Malformed chapter entries are skipped with a warning collected into
// warns rather than failing the fetch: chapters are just one of several
// unreliable structure sources.
func parseMetadata(data []byte) (Metadata, []string, error) {
	var raw metadataJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return Metadata{}, nil, fmt.Errorf("%w: cannot decode metadata: %v", ErrMetadataUnavailable, err)
	}
	if raw.Type == "playlist" || raw.Type == "multi_video" {
		return Metadata{}, nil, fmt.Errorf("%w: %s", ErrPlaylist, raw.ID)
	}
	if raw.Title == "" {
		return Metadata{}, nil, fmt.Errorf("%w: no title in metadata", ErrMetadataUnavailable)
	}

	md := Metadata{
		ID:          raw.ID,
		Title:       raw.Title,
		Description: raw.Description,
	}

	var warns []string
	for i, ch := range raw.Chapters {
		if ch.StartTime < 0 {
			warns = append(warns, fmt.Sprintf("chapter %d has negative start %v, skipped", i+1, ch.StartTime))
			continue
		}
		md.Chapters = append(md.Chapters, segment.Chapter{
			Start: ch.StartTime,
			End:   ch.EndTime,
			Title: ch.Title,
		})
	}
	return md, warns, nil
}
