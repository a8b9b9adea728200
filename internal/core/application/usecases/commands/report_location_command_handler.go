package commands

import (
	"context"

	"swiftlogistics/internal/core/domain/model/tracking"
)

// LocationReporter ingests validated driver position reports.
type LocationReporter interface {
	ReportLocation(ctx context.Context, location tracking.DriverLocation) error
}

// ReportLocationCommandHandler forwards position reports to the live
// tracker. Reports overwrite the cached location; the core keeps no
// location history.
type ReportLocationCommandHandler struct {
	tracker LocationReporter
}

// NewReportLocationCommandHandler creates a handler for position reports.
func NewReportLocationCommandHandler(tracker LocationReporter) ReportLocationCommandHandler {
	return ReportLocationCommandHandler{tracker: tracker}
}

// Handle ingests one position report.
func (h ReportLocationCommandHandler) Handle(ctx context.Context, command ReportLocationCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}
	return h.tracker.ReportLocation(ctx, command.Location())
}
