package service

import (
	"context"
	"sync"
	"time"

	bookingrepo "innkeep/internal/bookings/repository"
	"innkeep/internal/dashboard/repository"
	"innkeep/pkg/config"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/model"
)

type Summary struct {
	TotalBookings int64 `json:"total_bookings"`
	Booked        int64 `json:"booked"`
	Cleaning      int64 `json:"cleaning"`
}

type ChartPoint struct {
	Date     string `json:"date"`
	Bookings int64  `json:"bookings"`
}

type Report struct {
	Summary       Summary               `json:"summary"`
	Chart         []ChartPoint          `json:"chart"`
	Notifications []*model.Notification `json:"notifications"`
}

type DashboardService interface {
	Summary(ctx context.Context) (*Summary, error)
	TrailingChart(ctx context.Context, days int) ([]ChartPoint, error)
	RecentNotifications(ctx context.Context, limit int) ([]*model.Notification, error)
	Report(ctx context.Context) (*Report, error)
}

type dashboardService struct {
	bookings      bookingrepo.BookingRepository
	notifications repository.NotificationRepository
	cfg           *config.Config
	now           func() time.Time
}

func NewDashboardService(
	bookings bookingrepo.BookingRepository,
	notifications repository.NotificationRepository,
	cfg *config.Config,
) DashboardService {
	return &dashboardService{
		bookings:      bookings,
		notifications: notifications,
		cfg:           cfg,
		now:           time.Now,
	}
}

// Summary fans the three independent status counts out concurrently.
func (s *dashboardService) Summary(ctx context.Context) (*Summary, error) {
	var total, booked, cleaning int64
	var errTotal, errBooked, errCleaning error
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		total, errTotal = s.bookings.CountByStatus(ctx, "")
	}()
	go func() {
		defer wg.Done()
		booked, errBooked = s.bookings.CountByStatus(ctx, model.StatusBooked)
	}()
	go func() {
		defer wg.Done()
		cleaning, errCleaning = s.bookings.CountByStatus(ctx, model.StatusCleaning)
	}()

	wg.Wait()
	for _, err := range []error{errTotal, errBooked, errCleaning} {
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings for summary", "error", err)
			return nil, apperrors.Internal("Failed to build dashboard summary", err)
		}
	}

	return &Summary{
		TotalBookings: total,
		Booked:        booked,
		Cleaning:      cleaning,
	}, nil
}

// TrailingChart returns exactly days entries, one per calendar day, oldest
// first and ending with today. Day boundaries are UTC: each bucket counts
// bookings created within [00:00:00, 23:59:59] of its date.
func (s *dashboardService) TrailingChart(ctx context.Context, days int) ([]ChartPoint, error) {
	if days <= 0 {
		return nil, apperrors.InvalidInput("Chart window must be at least one day")
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	chart := make([]ChartPoint, 0, days)

	for i := 0; i < days; i++ {
		day := today.AddDate(0, 0, -(days - 1 - i))
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		end := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, time.UTC)

		count, err := s.bookings.CountCreatedBetween(ctx, start, end)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings for chart", "date", day, "error", err)
			return nil, apperrors.Internal("Failed to build dashboard chart", err)
		}

		chart = append(chart, ChartPoint{
			Date:     day.Format("2006-01-02"),
			Bookings: count,
		})
	}

	return chart, nil
}

func (s *dashboardService) RecentNotifications(ctx context.Context, limit int) ([]*model.Notification, error) {
	limit = config.NormalizeLimit(limit)

	notifications, err := s.notifications.FindRecent(ctx, limit)
	if err != nil {
		s.cfg.Log.Error("Failed to list notifications", "error", err)
		return nil, apperrors.Internal("Failed to retrieve notifications", err)
	}

	if notifications == nil {
		notifications = []*model.Notification{}
	}
	return notifications, nil
}

// Report assembles the full dashboard payload.
func (s *dashboardService) Report(ctx context.Context) (*Report, error) {
	summary, err := s.Summary(ctx)
	if err != nil {
		return nil, err
	}

	chart, err := s.TrailingChart(ctx, s.cfg.ChartDays)
	if err != nil {
		return nil, err
	}

	notifications, err := s.RecentNotifications(ctx, s.cfg.NotificationLimit)
	if err != nil {
		return nil, err
	}

	return &Report{
		Summary:       *summary,
		Chart:         chart,
		Notifications: notifications,
	}, nil
}
