package model

import "time"

// IngestRecord is the log record written after an ingestion run.
type IngestRecord struct {
	RunID      string    `json:"run_id"`
	SourcePath string    `json:"source_path"`
	StorePath  string    `json:"store_path"`
	WindowSize int       `json:"window_size"`
	Overlap    int       `json:"overlap"`
	Segments   int       `json:"segments"`
	LoadedAt   time.Time `json:"loaded_at"`
}
