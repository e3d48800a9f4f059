package worker

import (
	"context"
	"time"

	"github.com/wasssssim/verger-du-coin/internal/service"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"
)

// StartReportCron generates the daily report of locationCode every day at
// at ("HH:MM", UTC). The scheduler stops when ctx is cancelled.
func StartReportCron(ctx context.Context, reports service.ReportService, locationCode, at string) (*gocron.Scheduler, error) {
	s := gocron.NewScheduler(time.UTC)
	_, err := s.Every(1).Day().At(at).Do(func() {
		runDailyReport(ctx, reports, locationCode, time.Now().UTC())
	})
	if err != nil {
		return nil, err
	}
	s.StartAsync()
	log.Info().Str("location", locationCode).Str("at", at).Msg("report_cron: scheduled")

	go func() {
		<-ctx.Done()
		s.Stop()
		log.Info().Msg("report_cron: stopped")
	}()
	return s, nil
}

func runDailyReport(ctx context.Context, reports service.ReportService, locationCode string, day time.Time) {
	resp, err := reports.GenerateForCode(ctx, day, locationCode)
	if err != nil {
		log.Error().Err(err).Str("location", locationCode).Msg("report_cron: generation failed")
		return
	}
	log.Info().
		Str("date", resp.Date).
		Int("sales", resp.TotalSalesCount).
		Str("revenue", resp.TotalRevenue.StringFixed(2)).
		Msg("report_cron: daily report generated")
}
