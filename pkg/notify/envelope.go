package notify

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// NotificationQueue is the queue both sides agree on.
	NotificationQueue = "NOTIFICATION"

	// SchemaVersion travels in the SchemaVersionHeader AMQP header so the
	// body stays a bare envelope.
	SchemaVersion       = 1
	SchemaVersionHeader = "x-schema-version"
)

var ErrInvalidJob = errors.New("invalid notification job")

// Envelope is the wire shape placed on the queue.
type Envelope struct {
	Pattern Pattern         `json:"pattern"`
	Data    json.RawMessage `json:"data"`
}

// Encode validates job and serializes it into an envelope.
func Encode(job Job) ([]byte, error) {
	if job == nil {
		return nil, fmt.Errorf("%w: nil job", ErrInvalidJob)
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}

	data, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", job.Pattern(), err)
	}

	body, err := json.Marshal(Envelope{Pattern: job.Pattern(), Data: data})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}
	return body, nil
}

// Decode parses an envelope and returns the validated payload its pattern
// names. Every failure wraps ErrInvalidJob.
func Decode(body []byte) (Job, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: malformed envelope: %v", ErrInvalidJob, err)
	}

	var job Job
	switch env.Pattern {
	case PatternSendOtp:
		var p OtpPayload
		if err := unmarshalData(env, &p); err != nil {
			return nil, err
		}
		job = p
	case PatternSendEventDetails:
		var p EventDetailsPayload
		if err := unmarshalData(env, &p); err != nil {
			return nil, err
		}
		job = p
	case PatternSendPriceUpdate:
		var p PriceUpdatePayload
		if err := unmarshalData(env, &p); err != nil {
			return nil, err
		}
		job = p
	case PatternSendBookingDetails:
		var p BookingDetailsPayload
		if err := unmarshalData(env, &p); err != nil {
			return nil, err
		}
		job = p
	default:
		return nil, fmt.Errorf("%w: unknown pattern %q", ErrInvalidJob, env.Pattern)
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}
	return job, nil
}

func unmarshalData(env Envelope, dest interface{}) error {
	if len(env.Data) == 0 {
		return fmt.Errorf("%w: %s: missing data", ErrInvalidJob, env.Pattern)
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidJob, env.Pattern, err)
	}
	return nil
}

func validatePayload(p Job) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidJob, p.Pattern(), err)
	}
	return nil
}
