package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"innkeep/pkg/config"
	mongotx "innkeep/pkg/db/mongo"
	"innkeep/pkg/logger"
	"innkeep/pkg/model"
)

type mockBookingCounts struct {
	byStatus       map[string]int64
	createdBetween func(from, to time.Time) (int64, error)
	statusErr      error
}

func (m *mockBookingCounts) Create(ctx context.Context, booking *model.Booking) error {
	return nil
}

func (m *mockBookingCounts) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingCounts) CountOverlapping(ctx context.Context, roomType string, checkIn, checkOut time.Time) (int64, error) {
	return 0, nil
}

func (m *mockBookingCounts) CountByStatus(ctx context.Context, status string) (int64, error) {
	if m.statusErr != nil {
		return 0, m.statusErr
	}
	return m.byStatus[status], nil
}

func (m *mockBookingCounts) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	if m.createdBetween != nil {
		return m.createdBetween(from, to)
	}
	return 0, nil
}

func (m *mockBookingCounts) SetPayment(ctx context.Context, id string, method string) error {
	return nil
}

func (m *mockBookingCounts) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockNotifications struct {
	findRecentFn func(ctx context.Context, limit int) ([]*model.Notification, error)
}

func (m *mockNotifications) FindRecent(ctx context.Context, limit int) ([]*model.Notification, error) {
	if m.findRecentFn != nil {
		return m.findRecentFn(ctx, limit)
	}
	return nil, nil
}

func newTestDashboard(bookings *mockBookingCounts, notifications *mockNotifications) *dashboardService {
	cfg := &config.Config{
		Log:               logger.New(logger.Config{Level: logger.ERROR}),
		ChartDays:         7,
		NotificationLimit: 10,
	}
	svc := NewDashboardService(bookings, notifications, cfg)
	return svc.(*dashboardService)
}

func TestSummary(t *testing.T) {
	bookings := &mockBookingCounts{byStatus: map[string]int64{
		"":                   12,
		model.StatusBooked:   5,
		model.StatusCleaning: 2,
	}}
	svc := newTestDashboard(bookings, &mockNotifications{})

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TotalBookings != 12 {
		t.Errorf("expected total 12, got %d", summary.TotalBookings)
	}
	if summary.Booked != 5 {
		t.Errorf("expected booked 5, got %d", summary.Booked)
	}
	if summary.Cleaning != 2 {
		t.Errorf("expected cleaning 2, got %d", summary.Cleaning)
	}
}

func TestSummary_StoreError(t *testing.T) {
	bookings := &mockBookingCounts{statusErr: errors.New("connection reset")}
	svc := newTestDashboard(bookings, &mockNotifications{})

	if _, err := svc.Summary(context.Background()); err == nil {
		t.Fatal("expected error from failing store")
	}
}

func TestTrailingChart(t *testing.T) {
	fixed := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)
	counts := map[string]int64{
		"2026-03-14": 2,
		"2026-03-15": 4,
	}

	bookings := &mockBookingCounts{
		createdBetween: func(from, to time.Time) (int64, error) {
			if from.Hour() != 0 || from.Minute() != 0 || from.Second() != 0 {
				t.Errorf("expected day start at 00:00:00, got %v", from)
			}
			if to.Hour() != 23 || to.Minute() != 59 || to.Second() != 59 {
				t.Errorf("expected day end at 23:59:59, got %v", to)
			}
			return counts[from.Format("2006-01-02")], nil
		},
	}
	svc := newTestDashboard(bookings, &mockNotifications{})
	svc.now = func() time.Time { return fixed }

	chart, err := svc.TrailingChart(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(chart) != 7 {
		t.Fatalf("expected exactly 7 entries, got %d", len(chart))
	}
	if chart[0].Date != "2026-03-09" {
		t.Errorf("expected first entry 2026-03-09, got %s", chart[0].Date)
	}
	if chart[6].Date != "2026-03-15" {
		t.Errorf("expected last entry to be today, got %s", chart[6].Date)
	}
	for i := 1; i < len(chart); i++ {
		if chart[i].Date <= chart[i-1].Date {
			t.Errorf("expected strictly increasing dates, got %s after %s", chart[i].Date, chart[i-1].Date)
		}
	}
	if chart[5].Bookings != 2 || chart[6].Bookings != 4 {
		t.Errorf("expected counts [.. 2 4], got %+v", chart)
	}
	if chart[0].Bookings != 0 {
		t.Errorf("expected zero count for empty day, got %d", chart[0].Bookings)
	}
}

func TestTrailingChart_InvalidWindow(t *testing.T) {
	svc := newTestDashboard(&mockBookingCounts{}, &mockNotifications{})

	if _, err := svc.TrailingChart(context.Background(), 0); err == nil {
		t.Error("expected error for zero-day window")
	}
}

func TestRecentNotifications_EmptyIsNotNil(t *testing.T) {
	svc := newTestDashboard(&mockBookingCounts{}, &mockNotifications{})

	notifications, err := svc.RecentNotifications(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if notifications == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(notifications) != 0 {
		t.Fatalf("expected no notifications, got %d", len(notifications))
	}
}

func TestRecentNotifications_ClampsLimit(t *testing.T) {
	var gotLimit int
	notifications := &mockNotifications{
		findRecentFn: func(ctx context.Context, limit int) ([]*model.Notification, error) {
			gotLimit = limit
			return []*model.Notification{{Title: "New booking"}}, nil
		},
	}
	svc := newTestDashboard(&mockBookingCounts{}, notifications)

	if _, err := svc.RecentNotifications(context.Background(), -3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit <= 0 {
		t.Errorf("expected normalized positive limit, got %d", gotLimit)
	}
}

func TestReport(t *testing.T) {
	bookings := &mockBookingCounts{byStatus: map[string]int64{"": 3, model.StatusBooked: 3}}
	notifications := &mockNotifications{
		findRecentFn: func(ctx context.Context, limit int) ([]*model.Notification, error) {
			return []*model.Notification{{Title: "New booking", Level: model.LevelInfo}}, nil
		},
	}
	svc := newTestDashboard(bookings, notifications)
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC) }

	report, err := svc.Report(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Summary.TotalBookings != 3 {
		t.Errorf("expected total 3, got %d", report.Summary.TotalBookings)
	}
	if len(report.Chart) != 7 {
		t.Errorf("expected 7 chart entries, got %d", len(report.Chart))
	}
	if len(report.Notifications) != 1 {
		t.Errorf("expected 1 notification, got %d", len(report.Notifications))
	}
}
