package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const attendanceSheet = "Attendance"

var attendanceHeaders = []string{
	"Patient", "Program", "Session type", "Scheduled", "Status", "Cancel reason", "Recorded at", "Recorded by",
}

// ExportAttendance renders every attendance row as an XLSX workbook
func (s *SessionService) ExportAttendance(ctx context.Context) (*bytes.Buffer, error) {
	rows, err := s.AllAttendance(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", attendanceSheet); err != nil {
		return nil, err
	}

	for i, h := range attendanceHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(attendanceSheet, cell, h); err != nil {
			return nil, err
		}
	}

	loc := s.cfg.Location()
	for idx, r := range rows {
		scheduled := ""
		if r.ScheduledDate != nil {
			scheduled = r.ScheduledDate.In(loc).Format("2006-01-02 15:04")
		}
		values := []interface{}{
			r.PatientName,
			deref(r.ProgramName),
			deref(r.SessionType),
			scheduled,
			r.SessionStatus,
			deref(r.CancelReason),
			r.AttendedAt.In(loc).Format("2006-01-02 15:04"),
			deref(r.AttendanceMarkedBy),
		}
		cell, _ := excelize.CoordinatesToCellName(1, idx+2)
		if err := f.SetSheetRow(attendanceSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", idx+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
