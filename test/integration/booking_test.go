package integration

import (
	"fmt"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"innkeep/pkg/client"
	"innkeep/pkg/model"
)

// These tests run against a live service. Set TEST_SERVER_URL (and run the
// migrate job against a clean database first); they are skipped otherwise.

var (
	api  *client.BookingClient
	once sync.Once
)

func serverURL() string {
	return os.Getenv("TEST_SERVER_URL")
}

func setup(t *testing.T) *client.BookingClient {
	t.Helper()

	if serverURL() == "" {
		t.Skip("TEST_SERVER_URL not set, skipping integration tests")
	}

	once.Do(func() {
		api = client.NewBookingClient(serverURL())
		httpClient := client.NewHttpClient(serverURL())
		if err := httpClient.WaitForHealthy(30 * time.Second); err != nil {
			t.Fatalf("service not healthy: %v", err)
		}
	})
	return api
}

// uniqueStay returns a date range unlikely to collide with other tests.
func uniqueStay(daysFromNow, nights int) (string, string) {
	in := time.Now().UTC().AddDate(0, 0, daysFromNow).Truncate(24 * time.Hour)
	out := in.AddDate(0, 0, nights)
	return in.Format(time.RFC3339), out.Format(time.RFC3339)
}

func bookingPayload(roomType string, guests int, checkIn, checkOut string) map[string]any {
	return map[string]any{
		"customer_name":  "Alice Smith",
		"customer_email": "alice@example.com",
		"room_type":      roomType,
		"guests":         guests,
		"check_in":       checkIn,
		"check_out":      checkOut,
	}
}

func TestRooms(t *testing.T) {
	api := setup(t)

	resp, err := api.Rooms()
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %s", resp.ToString())
	}

	var result struct {
		Data []model.RoomType `json:"data"`
	}
	if err := resp.DecodeJSON(&result); err != nil {
		t.Fatalf("failed to decode rooms: %v", err)
	}
	if len(result.Data) == 0 {
		t.Fatal("expected at least one room type")
	}
	for _, room := range result.Data {
		if room.Type == "" || room.Capacity < 1 {
			t.Errorf("invalid room entry: %+v", room)
		}
	}
}

func TestCreateAndConflict(t *testing.T) {
	api := setup(t)
	checkIn, checkOut := uniqueStay(30, 2)

	resp, err := api.Create(bookingPayload("Deluxe", 2, checkIn, checkOut))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %s", resp.ToString())
	}

	booking, err := api.DecodeBooking(resp)
	if err != nil {
		t.Fatalf("failed to decode booking: %v", err)
	}
	if booking.ID == "" {
		t.Error("expected booking ID to be set")
	}
	if booking.Status != model.StatusBooked {
		t.Errorf("expected status Booked, got %q", booking.Status)
	}

	// Same room type and dates again must conflict.
	resp, err = api.Create(bookingPayload("Deluxe", 2, checkIn, checkOut))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %s", resp.ToString())
	}
}

func TestBackToBackStays(t *testing.T) {
	api := setup(t)
	checkIn, checkOut := uniqueStay(40, 2)

	resp, err := api.Create(bookingPayload("Executive", 2, checkIn, checkOut))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %s", resp.ToString())
	}

	// Next stay starts exactly at the previous checkout.
	nextOut, _ := uniqueStay(44, 0)
	resp, err = api.Create(bookingPayload("Executive", 2, checkOut, nextOut))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected back-to-back stay to succeed, got %s", resp.ToString())
	}
}

func TestCreateValidationFailures(t *testing.T) {
	api := setup(t)
	checkIn, checkOut := uniqueStay(50, 2)

	tests := []struct {
		name       string
		payload    map[string]any
		wantStatus int
	}{
		{
			name:       "reversed dates",
			payload:    bookingPayload("Deluxe", 2, checkOut, checkIn),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "capacity exceeded",
			payload:    bookingPayload("Deluxe", 5, checkIn, checkOut),
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "unknown room type",
			payload:    bookingPayload("Penthouse", 2, checkIn, checkOut),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "missing email",
			payload:    map[string]any{"customer_name": "Alice Smith", "room_type": "Deluxe", "guests": 2, "check_in": checkIn, "check_out": checkOut},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := api.Create(tc.payload)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tc.wantStatus {
				t.Errorf("expected %d, got %s", tc.wantStatus, resp.ToString())
			}
		})
	}
}

func TestCreateMalformedJSON(t *testing.T) {
	api := setup(t)

	resp, err := api.CreateRaw([]byte(`{"customer_name": `))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %s", resp.ToString())
	}
}

func TestAvailability(t *testing.T) {
	api := setup(t)
	checkIn, checkOut := uniqueStay(60, 2)

	resp, err := api.Availability("Royal Suite", checkIn, checkOut, 2)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %s", resp.ToString())
	}

	var result struct {
		Data struct {
			Available bool   `json:"available"`
			Reason    string `json:"reason"`
		} `json:"data"`
	}
	if err := resp.DecodeJSON(&result); err != nil {
		t.Fatalf("failed to decode availability: %v", err)
	}
	if !result.Data.Available {
		t.Errorf("expected free dates to be available: %s", resp.ToString())
	}

	// Book it, then the same range must report unavailable.
	createResp, err := api.Create(bookingPayload("Royal Suite", 3, checkIn, checkOut))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if createResp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %s", createResp.ToString())
	}

	resp, err = api.Availability("Royal Suite", checkIn, checkOut, 2)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if err := resp.DecodeJSON(&result); err != nil {
		t.Fatalf("failed to decode availability: %v", err)
	}
	if result.Data.Available {
		t.Error("expected booked dates to be unavailable")
	}
}

func TestAvailability_CapacityReason(t *testing.T) {
	api := setup(t)
	checkIn, checkOut := uniqueStay(70, 2)

	resp, err := api.Availability("Deluxe", checkIn, checkOut, 6)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %s", resp.ToString())
	}

	var result struct {
		Data struct {
			Available bool   `json:"available"`
			Reason    string `json:"reason"`
		} `json:"data"`
	}
	if err := resp.DecodeJSON(&result); err != nil {
		t.Fatalf("failed to decode availability: %v", err)
	}
	if result.Data.Available {
		t.Error("expected unavailable for excess guests")
	}
	if result.Data.Reason != "Exceeds capacity" {
		t.Errorf("expected reason %q, got %q", "Exceeds capacity", result.Data.Reason)
	}
}

func TestAvailability_MalformedDate(t *testing.T) {
	api := setup(t)

	resp, err := api.Availability("Deluxe", "tomorrow", "next week", 2)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %s", resp.ToString())
	}
}

func TestConfirmPayment(t *testing.T) {
	api := setup(t)
	checkIn, checkOut := uniqueStay(80, 2)

	resp, err := api.Create(bookingPayload("Deluxe", 2, checkIn, checkOut))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %s", resp.ToString())
	}
	booking, err := api.DecodeBooking(resp)
	if err != nil {
		t.Fatalf("failed to decode booking: %v", err)
	}

	payResp, err := api.ConfirmPayment(booking.ID, "EasyPaisa")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if payResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %s", payResp.ToString())
	}
	paid, err := api.DecodeBooking(payResp)
	if err != nil {
		t.Fatalf("failed to decode booking: %v", err)
	}
	if paid.Status != model.StatusPaid {
		t.Errorf("expected status Paid, got %q", paid.Status)
	}
	if paid.PaymentMethod != "EasyPaisa" {
		t.Errorf("expected payment method EasyPaisa, got %q", paid.PaymentMethod)
	}

	// Paying twice is a conflict.
	payResp, err = api.ConfirmPayment(booking.ID, "Card")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if payResp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409, got %s", payResp.ToString())
	}
}

func TestConfirmPayment_IdentifierErrors(t *testing.T) {
	api := setup(t)

	// Unknown but well-formed id -> 404.
	resp, err := api.ConfirmPayment("65f1c0ffee0000000000ffff", "Card")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %s", resp.ToString())
	}

	// Malformed id -> 400.
	resp, err = api.ConfirmPayment("not-a-hex-id", "Card")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %s", resp.ToString())
	}

	// Bad method on a well-formed id -> 422.
	resp, err = api.ConfirmPayment("65f1c0ffee0000000000ffff", "Barter")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %s", resp.ToString())
	}
}

func TestConcurrentCreates_OnlyOneWins(t *testing.T) {
	api := setup(t)
	checkIn, checkOut := uniqueStay(90, 2)

	const attempts = 8
	var wg sync.WaitGroup
	statuses := make([]int, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			payload := bookingPayload("Royal Suite", 2, checkIn, checkOut)
			payload["customer_email"] = fmt.Sprintf("guest%d@example.com", n)
			resp, err := api.Create(payload)
			if err != nil {
				statuses[n] = -1
				return
			}
			statuses[n] = resp.StatusCode
		}(i)
	}
	wg.Wait()

	created := 0
	for n, status := range statuses {
		switch status {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			// Either the overlap check or lock contention; both are correct.
		default:
			t.Errorf("attempt %d: unexpected status %d", n, status)
		}
	}
	if created != 1 {
		t.Errorf("expected exactly 1 successful booking, got %d", created)
	}
}
