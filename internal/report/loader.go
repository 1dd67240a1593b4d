// Package report moves complaints in and out of .xlsx workbooks.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"unmute-go/internal/logger"
	"unmute-go/internal/types"
)

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01-02-06 15:04",
	"1/2/06 15:04",
}

type columns struct {
	id, content, status, category, timestamp, audio, transcription, analysis int
}

// detectColumns maps header names to indices by keyword.
func detectColumns(header []string) columns {
	cols := columns{-1, -1, -1, -1, -1, -1, -1, -1}
	for i, h := range header {
		l := strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.Contains(l, "transcri"):
			if cols.transcription == -1 {
				cols.transcription = i
			}
		case strings.Contains(l, "analysis"):
			if cols.analysis == -1 {
				cols.analysis = i
			}
		case strings.Contains(l, "content") || strings.Contains(l, "text") || strings.Contains(l, "complaint") || strings.Contains(l, "description"):
			if cols.content == -1 {
				cols.content = i
			}
		case strings.Contains(l, "status"):
			cols.status = i
		case strings.Contains(l, "category"):
			cols.category = i
		case strings.Contains(l, "time") || strings.Contains(l, "date"):
			cols.timestamp = i
		case strings.Contains(l, "audio"):
			cols.audio = i
		case l == "id" || strings.HasSuffix(l, " id"):
			cols.id = i
		}
	}
	return cols
}

func cell(r []string, idx int) string {
	if idx < 0 || idx >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[idx])
}

// LoadSeed reads complaints from the first sheet of a workbook. Rows without
// content are skipped.
func LoadSeed(path string) ([]types.Complaint, error) {
	log := logger.New().Component("report.loader").WithField("path", path)

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, fmt.Errorf("no data rows")
	}

	cols := detectColumns(rows[0])
	if cols.content == -1 {
		return nil, fmt.Errorf("no content column in header %v", rows[0])
	}

	var out []types.Complaint
	skipped := 0
	for i, r := range rows {
		if i == 0 {
			continue
		}
		c := types.Complaint{
			ID:            cell(r, cols.id),
			Content:       cell(r, cols.content),
			Category:      cell(r, cols.category),
			Transcription: cell(r, cols.transcription),
			AIAnalysis:    cell(r, cols.analysis),
			Status:        types.StatusPending,
		}
		if c.Content == "" {
			skipped++
			continue
		}
		if strings.EqualFold(cell(r, cols.status), string(types.StatusResolved)) {
			c.Status = types.StatusResolved
		}
		switch strings.ToLower(cell(r, cols.audio)) {
		case "true", "yes", "1", "y":
			c.IsAudio = true
		}
		if !c.IsAudio {
			c.Transcription = ""
		}
		c.Timestamp = parseTimestamp(cell(r, cols.timestamp))
		out = append(out, c)
	}
	log.WithField("complaints", len(out)).WithField("skipped", skipped).Info("seed workbook loaded")
	return out, nil
}

func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Now()
}

// DefaultSeed is the sample report shown when no seed workbook is configured.
func DefaultSeed(now time.Time) []types.Complaint {
	return []types.Complaint{{
		ID:        "1",
		Content:   "Seniors in the hostel block B are forcing freshers to complete their assignments at night. It's happening every day after 11 PM.",
		Timestamp: now.Add(-24 * time.Hour),
		Status:    types.StatusResolved,
		Category:  "Exclusion",
	}}
}
