package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wasssssim/verger-du-coin/internal/dto"
	"github.com/wasssssim/verger-du-coin/internal/model"
	"github.com/wasssssim/verger-du-coin/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportService interface {
	Create(ctx context.Context, req dto.CreateReportRequest) (*dto.DailyReportResponse, error)
	List(ctx context.Context, filter dto.ReportFilter) (*dto.DailyReportListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.DailyReportResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateReportRequest) (*dto.DailyReportResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Generate computes a day's totals from completed sales and upserts the report.
	Generate(ctx context.Context, req dto.GenerateReportRequest) (*dto.DailyReportResponse, error)
	GenerateFor(ctx context.Context, day time.Time, locationID uuid.UUID) (*dto.DailyReportResponse, error)
	// GenerateForCode is the entry point of the nightly job, which knows locations by code.
	GenerateForCode(ctx context.Context, day time.Time, locationCode string) (*dto.DailyReportResponse, error)
}

type reportService struct {
	repo      repository.DailyReportRepository
	sales     repository.SaleRepository
	locations repository.LocationRepository
}

func NewReportService(repo repository.DailyReportRepository, sales repository.SaleRepository, locations repository.LocationRepository) ReportService {
	return &reportService{repo: repo, sales: sales, locations: locations}
}

// dayOf truncates t to midnight UTC.
func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseDay(s string) (time.Time, error) {
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return time.Time{}, dto.NewValidationError("date", "datetime="+dto.DateLayout)
	}
	return t, nil
}

func (s *reportService) Create(ctx context.Context, req dto.CreateReportRequest) (*dto.DailyReportResponse, error) {
	day, err := parseDay(req.Date)
	if err != nil {
		return nil, err
	}
	locationID, err := parseID(req.LocationID, "location_id")
	if err != nil {
		return nil, err
	}
	loc, err := s.locations.FindByID(ctx, locationID)
	if err != nil {
		return nil, repoErr(err, "location")
	}

	r := &model.DailyReport{
		Date:            day,
		LocationID:      locationID,
		TotalSalesCount: req.TotalSalesCount,
		TotalRevenue:    model.RoundMoney(req.TotalRevenue),
		TotalCash:       model.RoundMoney(req.TotalCash),
		TotalCard:       model.RoundMoney(req.TotalCard),
		ExpectedCash:    model.RoundMoney(req.ExpectedCash),
		ActualCash:      model.RoundMoney(req.ActualCash),
		IsValidated:     req.IsValidated,
		Notes:           req.Notes,
	}
	if err := s.repo.Create(ctx, nil, r); err != nil {
		return nil, repoErr(err, "report for "+req.Date)
	}
	r.Location = loc
	return reportToResponse(r), nil
}

func (s *reportService) List(ctx context.Context, filter dto.ReportFilter) (*dto.DailyReportListResponse, error) {
	var scopes []repository.Scope
	if filter.LocationID != "" {
		id, err := parseID(filter.LocationID, "location")
		if err != nil {
			return nil, err
		}
		scopes = append(scopes, repository.Eq("location_id", id))
	}
	if v := parseBoolFilter(filter.IsValidated); v != nil {
		scopes = append(scopes, repository.Eq("is_validated", *v))
	}

	reports, total, err := s.repo.List(ctx, repository.ListOptions{
		Scopes:  scopes,
		Preload: []string{"Location"},
		Offset:  filter.Offset(),
		Limit:   filter.Limit,
	})
	if err != nil {
		return nil, err
	}
	data := make([]dto.DailyReportResponse, len(reports))
	for i := range reports {
		data[i] = *reportToResponse(&reports[i])
	}
	return &dto.DailyReportListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *reportService) Get(ctx context.Context, id uuid.UUID) (*dto.DailyReportResponse, error) {
	r, err := s.repo.FindByID(ctx, id, "Location")
	if err != nil {
		return nil, repoErr(err, "report")
	}
	return reportToResponse(r), nil
}

func (s *reportService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateReportRequest) (*dto.DailyReportResponse, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repoErr(err, "report")
	}
	if req.TotalSalesCount != nil {
		r.TotalSalesCount = *req.TotalSalesCount
	}
	if req.TotalRevenue != nil {
		r.TotalRevenue = model.RoundMoney(*req.TotalRevenue)
	}
	if req.TotalCash != nil {
		r.TotalCash = model.RoundMoney(*req.TotalCash)
	}
	if req.TotalCard != nil {
		r.TotalCard = model.RoundMoney(*req.TotalCard)
	}
	if req.ExpectedCash != nil {
		r.ExpectedCash = model.RoundMoney(*req.ExpectedCash)
	}
	if req.ActualCash != nil {
		r.ActualCash = model.RoundMoney(*req.ActualCash)
	}
	if req.IsValidated != nil {
		r.IsValidated = *req.IsValidated
	}
	if req.Notes != nil {
		r.Notes = *req.Notes
	}
	if err := s.repo.Update(ctx, nil, r); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *reportService) Delete(ctx context.Context, id uuid.UUID) error {
	return repoErr(s.repo.Delete(ctx, id), "report")
}

func (s *reportService) Generate(ctx context.Context, req dto.GenerateReportRequest) (*dto.DailyReportResponse, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	day, err := parseDay(req.Date)
	if err != nil {
		return nil, err
	}
	locationID, err := parseID(req.LocationID, "location_id")
	if err != nil {
		return nil, err
	}
	return s.GenerateFor(ctx, day, locationID)
}

func (s *reportService) GenerateForCode(ctx context.Context, day time.Time, locationCode string) (*dto.DailyReportResponse, error) {
	loc, err := s.locations.FindByCode(ctx, locationCode)
	if err != nil {
		return nil, repoErr(err, "location "+locationCode)
	}
	return s.GenerateFor(ctx, day, loc.ID)
}

func (s *reportService) GenerateFor(ctx context.Context, day time.Time, locationID uuid.UUID) (*dto.DailyReportResponse, error) {
	day = dayOf(day)
	loc, err := s.locations.FindByID(ctx, locationID)
	if err != nil {
		return nil, repoErr(err, "location")
	}

	r, err := s.repo.FindByDate(ctx, day)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		r = &model.DailyReport{Date: day, LocationID: locationID}
	case err != nil:
		return nil, err
	case r.IsValidated:
		return nil, fmt.Errorf("%w: report for %s is already validated", ErrConflict, day.Format(dto.DateLayout))
	case r.LocationID != locationID:
		return nil, fmt.Errorf("%w: report for %s belongs to another location", ErrConflict, day.Format(dto.DateLayout))
	}

	totals, err := s.sales.CompletedForDay(ctx, locationID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	r.TotalSalesCount = int(totals.Count)
	r.TotalRevenue = model.RoundMoney(totals.Revenue)
	r.TotalCash = model.RoundMoney(totals.Cash)
	r.TotalCard = model.RoundMoney(totals.Card)
	r.ExpectedCash = r.TotalCash

	if r.ID == uuid.Nil {
		err = s.repo.Create(ctx, nil, r)
	} else {
		err = s.repo.Update(ctx, nil, r)
	}
	if err != nil {
		return nil, repoErr(err, "report for "+day.Format(dto.DateLayout))
	}
	r.Location = loc
	return reportToResponse(r), nil
}

func reportToResponse(r *model.DailyReport) *dto.DailyReportResponse {
	resp := &dto.DailyReportResponse{
		ID:              r.ID.String(),
		Date:            r.Date.Format(dto.DateLayout),
		LocationID:      r.LocationID.String(),
		TotalSalesCount: r.TotalSalesCount,
		TotalRevenue:    r.TotalRevenue,
		TotalCash:       r.TotalCash,
		TotalCard:       r.TotalCard,
		ExpectedCash:    r.ExpectedCash,
		ActualCash:      r.ActualCash,
		CashDifference:  r.CashDifference(),
		IsValidated:     r.IsValidated,
		Notes:           r.Notes,
		CreatedAt:       formatTime(r.CreatedAt),
	}
	if r.Location != nil {
		resp.LocationName = r.Location.Name
	}
	return resp
}
