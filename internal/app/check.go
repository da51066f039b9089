package app

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"hotel-erp/internal/core"
	"hotel-erp/internal/policies"
	"hotel-erp/internal/types"
)

// Check runs the read-only backend diagnostic. Backend failures land in the
// report; only a failed report write is returned as an error.
func (s Service) Check(ctx context.Context, req CheckRequest) (types.SetupReport, error) {
	roomCandidates := policies.RoomCandidates
	bookingCandidates := policies.BookingCandidates
	if entity, err := s.Catalog.Entity(policies.EntityRoom); err == nil {
		roomCandidates = entity.Candidates
	}
	if entity, err := s.Catalog.Entity(policies.EntityBooking); err == nil {
		bookingCandidates = entity.Candidates
	}

	report := core.NewSetupChecker(s.Resources, s.Connection, roomCandidates, bookingCandidates).Check(ctx)
	log.Info().
		Bool("ok", report.OK).
		Int("issues", len(report.Issues)).
		Int("warnings", len(report.Warnings)).
		Msg("backend setup checked")

	if outputPath := strings.TrimSpace(req.OutputPath); outputPath != "" {
		if err := s.Reports.WriteSetupReport(outputPath, report); err != nil {
			return report, err
		}
	}
	return report, nil
}
