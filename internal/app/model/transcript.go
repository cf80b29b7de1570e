package model

// TranscriptEntry is one timed line of a video transcript. Start and Duration
// are seconds from the beginning of the video.
type TranscriptEntry struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// VideoSource names one video to ingest.
type VideoSource struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
