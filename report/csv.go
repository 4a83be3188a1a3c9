package report

import (
	"encoding/csv"
	"os"

	apperrors "meetups.app/errors"
	"meetups.app/models"
)

// WriteCSV writes the meetup records as comma-separated rows without a
// header line.
func WriteCSV(path string, records []models.MeetupRecord) error {
	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewFileStorageError("failed to create CSV report file", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(Rows(records)); err != nil {
		return apperrors.NewFileStorageError("failed to write CSV report", err)
	}
	return nil
}
