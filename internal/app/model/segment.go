package model

// SegmentMetadata identifies a segment and links it back to its source video.
// SegmentID is videoID plus the index of the window's first transcript entry,
// so re-windowing the same transcript reproduces the same ids.
type SegmentMetadata struct {
	VideoID   string `json:"video_id"`
	SegmentID string `json:"segment_id"`
	Title     string `json:"title"`
	SourceURL string `json:"source_url"`
}

// Segment is one windowed slice of a transcript, optionally carrying its
// embedding vector. Stores require the embedding; windowing produces segments
// without one.
type Segment struct {
	Text      string          `json:"text"`
	Metadata  SegmentMetadata `json:"metadata"`
	Embedding []float32       `json:"-"`
}

// HasEmbedding reports whether an embedding vector is attached.
func (s Segment) HasEmbedding() bool {
	return len(s.Embedding) > 0
}

// ScoredSegment pairs a segment with its similarity score for one query.
type ScoredSegment struct {
	Segment Segment `json:"segment"`
	Score   float32 `json:"score"`
}
