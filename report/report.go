// Package report renders the joined meetup view into downloadable CSV and
// PDF files.
package report

import (
	"strconv"

	"meetups.app/models"
)

// Titles are the report column names, matching the joined meetup view.
var Titles = []string{
	"id", "meetup_name", "date", "description",
	"theme", "tags", "place_name", "location",
}

func recordRow(record models.MeetupRecord) []string {
	return []string{
		strconv.FormatUint(uint64(record.ID), 10),
		record.MeetupName,
		record.Date.UTC().Format("2006-01-02 15:04:05"),
		record.Description,
		record.Theme,
		record.Tags,
		record.PlaceName,
		record.Location,
	}
}

// Rows converts the joined meetup records into report rows
func Rows(records []models.MeetupRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, recordRow(record))
	}
	return rows
}
