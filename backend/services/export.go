package services

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
)

const (
	progressSheet = "Progress"
	activitySheet = "Activity"
)

// ExportWorkbook renders the user's ledger and daily activity as an XLSX workbook.
func (a *Analytics) ExportWorkbook(ctx context.Context, userID uint) (*bytes.Buffer, error) {
	ledger, err := a.LedgerRows(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary, err := a.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", progressSheet)
	if err := writeRow(f, progressSheet, 1, []interface{}{"Course", "Video", "Path", "Watched (s)", "Duration (s)", "Completed"}); err != nil {
		return nil, err
	}
	for i, r := range ledger {
		row := []interface{}{r.CourseTitle, r.VideoTitle, r.VideoPath, r.WatchedTime, r.Duration, r.IsCompleted}
		if err := writeRow(f, progressSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(activitySheet); err != nil {
		return nil, fmt.Errorf("create activity sheet: %w", err)
	}
	if err := writeRow(f, activitySheet, 1, []interface{}{"Date", "Seconds watched", "Videos completed"}); err != nil {
		return nil, err
	}
	dates := make([]string, 0, len(summary.Activity))
	for d := range summary.Activity {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	for i, d := range dates {
		b := summary.Activity[d]
		if err := writeRow(f, activitySheet, i+2, []interface{}{b.Date, b.Seconds, b.Count}); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
