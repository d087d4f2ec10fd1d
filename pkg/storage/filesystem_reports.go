package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ultrapreps/visionqa/pkg/domain/report"
)

// AppendReport adds a batch report to reports.jsonl.
func (r *FilesystemRepository) AppendReport(rep *report.BatchReport) error {
	path, err := r.ResolvePath(ReportsFile)
	if err != nil {
		return err
	}
	if err := r.Initialize(); err != nil {
		return err
	}

	data, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	data = append(data, '\n')

	// #nosec G304 -- Path is resolved and validated via ResolvePath
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open reports file: %w", err)
	}
	defer f.Close() //nolint:errcheck // write error is checked below

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

// LoadReports returns every stored batch report, oldest first.
func (r *FilesystemRepository) LoadReports() ([]report.BatchReport, error) {
	path, err := r.ResolvePath(ReportsFile)
	if err != nil {
		return nil, err
	}

	// #nosec G304 -- Path is resolved and validated via ResolvePath
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []report.BatchReport{}, nil
		}
		return nil, fmt.Errorf("failed to read reports file: %w", err)
	}

	reports := []report.BatchReport{}
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var rep report.BatchReport
		if err := json.Unmarshal(line, &rep); err != nil {
			continue // Skip malformed lines
		}
		reports = append(reports, rep)
	}

	return reports, nil
}

// FindReport returns the report for runID. A unique prefix is enough.
func (r *FilesystemRepository) FindReport(runID string) (*report.BatchReport, error) {
	reports, err := r.LoadReports()
	if err != nil {
		return nil, err
	}

	var match *report.BatchReport
	for i := range reports {
		if reports[i].RunID == runID {
			return &reports[i], nil
		}
		if runID != "" && len(runID) < len(reports[i].RunID) && reports[i].RunID[:len(runID)] == runID {
			if match != nil {
				return nil, fmt.Errorf("run id %q is ambiguous", runID)
			}
			match = &reports[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("report not found: %s", runID)
	}
	return match, nil
}
