package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"unmute-go/internal/types"
)

const exportSheet = "Complaints"

var exportHeader = []interface{}{"ID", "Timestamp", "Status", "Category", "Audio", "Content", "Transcription", "AI Analysis"}

// Export writes the complaints, in the given order, to a new workbook. The
// caller owns the returned file and must Close it.
func Export(complaints []types.Complaint) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, c := range complaints {
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		row := []interface{}{
			c.ID,
			c.Timestamp.UTC().Format(time.RFC3339),
			string(c.Status),
			c.Category,
			strconv.FormatBool(c.IsAudio),
			c.Content,
			c.Transcription,
			c.AIAnalysis,
		}
		if err := f.SetSheetRow(exportSheet, addr, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return f, nil
}
