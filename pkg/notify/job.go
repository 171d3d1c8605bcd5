// Package notify defines the notification jobs exchanged over the broker
// between the auth/core services and the notification service.
package notify

import (
	"time"

	"github.com/go-playground/validator/v10"
)

type Pattern string

const (
	PatternSendOtp            Pattern = "send-otp"
	PatternSendEventDetails   Pattern = "send-event-details"
	PatternSendPriceUpdate    Pattern = "send-price-update"
	PatternSendBookingDetails Pattern = "send-booking-details"
)

// Patterns lists every known pattern.
func Patterns() []Pattern {
	return []Pattern{
		PatternSendOtp,
		PatternSendEventDetails,
		PatternSendPriceUpdate,
		PatternSendBookingDetails,
	}
}

type EventStatus string

const (
	EventCreated  EventStatus = "created"
	EventUpdated  EventStatus = "updated"
	EventDeleted  EventStatus = "deleted"
	EventCanceled EventStatus = "canceled"
)

type BookingSubject string

const (
	BookingCreated  BookingSubject = "created"
	BookingCanceled BookingSubject = "canceled"
)

// Job is one of the four payload types below. The unexported method keeps
// the set closed to this package.
type Job interface {
	Pattern() Pattern
	Validate() error
	isJob()
}

type OtpPayload struct {
	To  string `json:"to" validate:"required,email"`
	Otp string `json:"otp" validate:"required"`
}

type EventDetailsPayload struct {
	To          string      `json:"to" validate:"required,email"`
	EventID     string      `json:"eventId" validate:"required,uuid"`
	Location    string      `json:"location" validate:"required"`
	Time        time.Time   `json:"time" validate:"required"`
	EventStatus EventStatus `json:"eventStatus" validate:"required,oneof=created updated deleted canceled"`
}

type PriceUpdatePayload struct {
	To      string `json:"to" validate:"required,email"`
	EventID string `json:"eventId" validate:"required,uuid"`
}

type BookingDetailsPayload struct {
	To         string         `json:"to" validate:"required,email"`
	EventTitle string         `json:"eventTitle" validate:"required"`
	Location   string         `json:"location" validate:"required"`
	Time       time.Time      `json:"time" validate:"required"`
	PaymentID  *string        `json:"paymentId"`
	Subject    BookingSubject `json:"subject" validate:"required,oneof=created canceled"`
}

var validate = validator.New()

func (OtpPayload) Pattern() Pattern            { return PatternSendOtp }
func (EventDetailsPayload) Pattern() Pattern   { return PatternSendEventDetails }
func (PriceUpdatePayload) Pattern() Pattern    { return PatternSendPriceUpdate }
func (BookingDetailsPayload) Pattern() Pattern { return PatternSendBookingDetails }

func (p OtpPayload) Validate() error            { return validatePayload(p) }
func (p EventDetailsPayload) Validate() error   { return validatePayload(p) }
func (p PriceUpdatePayload) Validate() error    { return validatePayload(p) }
func (p BookingDetailsPayload) Validate() error { return validatePayload(p) }

func (OtpPayload) isJob()            {}
func (EventDetailsPayload) isJob()   {}
func (PriceUpdatePayload) isJob()    {}
func (BookingDetailsPayload) isJob() {}
