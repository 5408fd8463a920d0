package client

import (
	"encoding/json"
	"fmt"
	"innkeep/pkg/model"
	"net/url"
)

// BookingClient is a thin Go client for the bookings API, used by the
// black-box integration tests and available to other backend consumers.
type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(baseUrl string) *BookingClient {
	return &BookingClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *BookingClient) Rooms() (*Response, error) {
	return c.httpClient.GET("/api/v1/rooms")
}

func (c *BookingClient) Availability(roomType, checkIn, checkOut string, guests int) (*Response, error) {
	q := url.Values{}
	q.Set("room_type", roomType)
	q.Set("check_in", checkIn)
	q.Set("check_out", checkOut)
	q.Set("guests", fmt.Sprintf("%d", guests))

	return c.httpClient.GET("/api/v1/availability?" + q.Encode())
}

func (c *BookingClient) Create(body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/bookings", body)
}

func (c *BookingClient) CreateRaw(rawBody []byte) (*Response, error) {
	return c.httpClient.POSTRaw("/api/v1/bookings", rawBody)
}

func (c *BookingClient) ConfirmPayment(id string, method string) (*Response, error) {
	path := "/api/v1/bookings/id/" + url.PathEscape(id) + "/payment"
	return c.httpClient.POST(path, map[string]string{"method": method})
}

func (c *BookingClient) Dashboard() (*Response, error) {
	return c.httpClient.GET("/api/v1/dashboard")
}

func (c *BookingClient) DecodeBooking(resp *Response) (*model.Booking, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode booking wrapper: %w", err)
	}

	var booking model.Booking
	if err := json.Unmarshal(wrapper.Data, &booking); err != nil {
		return nil, fmt.Errorf("could not decode booking: %w", err)
	}

	return &booking, nil
}
