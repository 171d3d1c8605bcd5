package entity

import "time"

const (
	DeliveryStatusSent   = "sent"
	DeliveryStatusFailed = "failed"
)

// Delivery records one attempt to send a notification email.
type Delivery struct {
	Pattern  string    `json:"pattern"`
	To       string    `json:"to"`
	Subject  string    `json:"subject"`
	Status   string    `json:"status"`
	Response string    `json:"response,omitempty"`
	Error    string    `json:"error,omitempty"`
	SentAt   time.Time `json:"sent_at"`
}
