package entity

import "time"

type Booking struct {
	ID              string    `json:"id"`
	EventID         string    `json:"event_id"`
	UserID          string    `json:"user_id"`
	PaymentID       *string   `json:"payment_id"`
	CalendarEventID string    `json:"calendar_event_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	Event           *Event    `json:"event,omitempty"`
}
