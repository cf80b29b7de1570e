package export

import (
	"github.com/tealeg/xlsx"

	"fitqa/internal/app/model"
)

// ToExcel writes segments to an xlsx workbook, one row per segment in store
// order. Embeddings are not exported; the workbook is for eyeballing corpus
// content, not for re-ingestion.
func ToExcel(segments []model.Segment, outputFilePath string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Segments")
	if err != nil {
		return err
	}

	headerRow := sheet.AddRow()
	headerRow.AddCell().Value = "Segment ID"
	headerRow.AddCell().Value = "Video ID"
	headerRow.AddCell().Value = "Title"
	headerRow.AddCell().Value = "Source"
	headerRow.AddCell().Value = "Text"

	for _, seg := range segments {
		row := sheet.AddRow()
		row.AddCell().Value = seg.Metadata.SegmentID
		row.AddCell().Value = seg.Metadata.VideoID
		row.AddCell().Value = seg.Metadata.Title
		row.AddCell().Value = seg.Metadata.SourceURL
		row.AddCell().Value = seg.Text
	}

	return file.Save(outputFilePath)
}
