package domain

// UnknownArtist is used when the primary source omits the artist name.
const UnknownArtist = "Unknown"

// MaxResults bounds every ResultSet.
const MaxResults = 5

// SearchHit is a single record returned by the primary lyrics index.
type SearchHit struct {
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	URL      string `json:"url"`
	AlbumArt string `json:"albumArt,omitempty"`
	// Lyrics holds the source's title-with-featured string until a snippet replaces it.
	Lyrics string `json:"lyrics,omitempty"`
}

// Enrichment carries the secondary lookups for one hit. Empty strings mean absent.
type Enrichment struct {
	Snippet    string `json:"snippet,omitempty"`
	PreviewURL string `json:"previewUrl,omitempty"`
}

type SongResult struct {
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	URL        string `json:"url"`
	AlbumArt   string `json:"albumArt,omitempty"`
	Lyrics     string `json:"lyrics,omitempty"`
	PreviewURL string `json:"previewUrl,omitempty"`
}

// ResultSet is ordered by the primary source's relevance; the first item is the best match.
type ResultSet []SongResult

// Best returns the first result, if any.
func (r ResultSet) Best() (SongResult, bool) {
	if len(r) == 0 {
		return SongResult{}, false
	}
	return r[0], true
}

func ResultFromHit(hit SearchHit) SongResult {
	return SongResult{
		Title:    hit.Title,
		Artist:   hit.Artist,
		URL:      hit.URL,
		AlbumArt: hit.AlbumArt,
		Lyrics:   hit.Lyrics,
	}
}

// LyricsCandidate is one record from the lyric-snippet source.
type LyricsCandidate struct {
	TrackName   string `json:"trackName,omitempty"`
	ArtistName  string `json:"artistName,omitempty"`
	PlainLyrics string `json:"plainLyrics,omitempty"`
}

// PreviewCandidate is one record from the audio-preview source.
type PreviewCandidate struct {
	TrackName  string `json:"trackName,omitempty"`
	ArtistName string `json:"artistName,omitempty"`
	PreviewURL string `json:"previewUrl,omitempty"`
}
