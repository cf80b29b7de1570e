package llm

import (
	"fmt"
	"strings"

	"fitqa/internal/app/model"
)

const contextBlock = "CONTEXT: %s\nTITLE: %s\nSOURCE: %s\n\n"

// FormatContext renders ranked results as one prompt-context string: a
// CONTEXT/TITLE/SOURCE block per result, in rank order, nothing reordered,
// dropped, or truncated. Empty results format to the empty string; the
// instruction template's fallback wording covers that case.
func FormatContext(results []model.ScoredSegment) string {
	var sb strings.Builder
	for _, res := range results {
		fmt.Fprintf(&sb, contextBlock, res.Segment.Text, res.Segment.Metadata.Title, res.Segment.Metadata.SourceURL)
	}
	return sb.String()
}
