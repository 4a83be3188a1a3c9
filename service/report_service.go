package service

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"meetups.app/errors"
	"meetups.app/models"
	"meetups.app/report"
)

// ReportService renders the list of upcoming meetups into downloadable
// files. Rendering runs on the task pool; the request waits on the handle.
type ReportService struct {
	meetupRepo MeetupRepositoryInterface
	store      FileStoreInterface
	tasks      TaskSubmitterInterface
}

// NewReportService creates a new report service
func NewReportService(
	meetupRepo MeetupRepositoryInterface,
	store FileStoreInterface,
	tasks TaskSubmitterInterface,
) *ReportService {
	return &ReportService{
		meetupRepo: meetupRepo,
		store:      store,
		tasks:      tasks,
	}
}

// reportPayload is the wire format of a queued report task
type reportPayload struct {
	UserID uint   `json:"user_id"`
	Mode   string `json:"mode"`
}

// CreateReport queues report generation and waits for the resulting path
func (s *ReportService) CreateReport(ctx context.Context, userID uint, mode string) (*models.ReportResponse, error) {
	log.Printf("[DEBUG] ReportService.CreateReport: userID=%d, mode=%s\n", userID, mode)

	mode = strings.ToLower(mode)

	var task string
	switch mode {
	case "csv":
		task = TaskCreateCSVReport
	case "pdf":
		task = TaskCreatePDFReport
	default:
		return nil, errors.NewValidationError("Incorrect mode")
	}

	handle, err := s.tasks.Submit(ctx, task, reportPayload{UserID: userID, Mode: mode})
	if err != nil {
		return nil, err
	}

	result, err := handle.Wait(ctx)
	if err != nil {
		return nil, err
	}

	path, ok := result.(string)
	if !ok {
		return nil, errors.NewTaskError("unexpected report task result", nil)
	}

	return &models.ReportResponse{Path: path}, nil
}

// HandleCreateReport is the pool handler rendering a report file. It
// serves both the CSV and the PDF task.
func (s *ReportService) HandleCreateReport(ctx context.Context, payload []byte) (interface{}, error) {
	var p reportPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, err
	}

	records, err := s.meetupRepo.ListActual(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list actual meetups", err)
	}

	path, err := s.store.NewReportPath(p.UserID, p.Mode)
	if err != nil {
		return nil, err
	}

	switch p.Mode {
	case "csv":
		err = report.WriteCSV(path, records)
	case "pdf":
		err = report.WritePDF(path, records)
	default:
		return nil, errors.NewValidationError("Incorrect mode")
	}
	if err != nil {
		return nil, err
	}

	log.Printf("[DEBUG] Report generated at: %s\n", path)
	return path, nil
}
