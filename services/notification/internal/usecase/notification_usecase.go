package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"time"

	"event-booking/pkg/logger"
	"event-booking/pkg/notify"
	"event-booking/services/notification/internal/entity"
	"event-booking/services/notification/internal/mailer"
	"event-booking/services/notification/internal/repo/persistent"

	"github.com/skip2/go-qrcode"
	"golang.org/x/time/rate"
)

const (
	qrContentID = "booking-qr@eventbooking"
	qrSize      = 256
)

// QueueInspector reports how many jobs are waiting.
type QueueInspector interface {
	QueueLength() (int, error)
}

type NotificationUseCase interface {
	Dispatch(ctx context.Context, job notify.Job) error
	SendOtpEmail(ctx context.Context, p notify.OtpPayload) error
	SendEventDetailsEmail(ctx context.Context, p notify.EventDetailsPayload) error
	SendPriceUpdateEmail(ctx context.Context, p notify.PriceUpdatePayload) error
	SendBookingDetailsEmail(ctx context.Context, p notify.BookingDetailsPayload) error
	QueueLength() (int, error)
	RecentDeliveries(ctx context.Context, limit int) ([]*entity.Delivery, error)
}

type notificationUseCase struct {
	transport    mailer.Transport
	deliveryRepo persistent.DeliveryRepository
	queue        QueueInspector
	limiter      *rate.Limiter
	from         string
	logger       *logger.Logger
}

// NewNotificationUseCase paces sends to ratePerSecond; zero or less means unlimited.
// deliveryRepo and queue may be nil.
func NewNotificationUseCase(
	transport mailer.Transport,
	deliveryRepo persistent.DeliveryRepository,
	queue QueueInspector,
	from string,
	ratePerSecond float64,
	logger *logger.Logger,
) NotificationUseCase {
	limit := rate.Inf
	burst := 1
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
		burst = int(ratePerSecond)
		if burst < 1 {
			burst = 1
		}
	}

	return &notificationUseCase{
		transport:    transport,
		deliveryRepo: deliveryRepo,
		queue:        queue,
		limiter:      rate.NewLimiter(limit, burst),
		from:         from,
		logger:       logger,
	}
}

// Dispatch routes job to its renderer.
func (uc *notificationUseCase) Dispatch(ctx context.Context, job notify.Job) error {
	uc.logger.Info("[NOTIFICATION HANDLER] Dispatching pattern=%s", job.Pattern())

	switch p := job.(type) {
	case notify.OtpPayload:
		return uc.SendOtpEmail(ctx, p)
	case notify.EventDetailsPayload:
		return uc.SendEventDetailsEmail(ctx, p)
	case notify.PriceUpdatePayload:
		return uc.SendPriceUpdateEmail(ctx, p)
	case notify.BookingDetailsPayload:
		return uc.SendBookingDetailsEmail(ctx, p)
	default:
		return fmt.Errorf("%w: no renderer for %T", notify.ErrInvalidJob, job)
	}
}

func (uc *notificationUseCase) SendOtpEmail(ctx context.Context, p notify.OtpPayload) error {
	if err := p.Validate(); err != nil {
		return err
	}

	text, err := renderText(otpText, p)
	if err != nil {
		return fmt.Errorf("failed to render otp email: %w", err)
	}

	return uc.send(ctx, p.Pattern(), &entity.Email{
		From:    uc.from,
		To:      p.To,
		Subject: "Verification Otp",
		Text:    text,
	})
}

func (uc *notificationUseCase) SendEventDetailsEmail(ctx context.Context, p notify.EventDetailsPayload) error {
	if err := p.Validate(); err != nil {
		return err
	}

	text, err := renderText(eventText, struct {
		Status   notify.EventStatus
		EventID  string
		Time     string
		Location string
	}{p.EventStatus, p.EventID, formatTime(p.Time), p.Location})
	if err != nil {
		return fmt.Errorf("failed to render event email: %w", err)
	}

	return uc.send(ctx, p.Pattern(), &entity.Email{
		From:    uc.from,
		To:      p.To,
		Subject: fmt.Sprintf("Event %s", p.EventStatus),
		Text:    text,
	})
}

func (uc *notificationUseCase) SendPriceUpdateEmail(ctx context.Context, p notify.PriceUpdatePayload) error {
	if err := p.Validate(); err != nil {
		return err
	}

	text, err := renderText(priceText, p)
	if err != nil {
		return fmt.Errorf("failed to render price email: %w", err)
	}

	return uc.send(ctx, p.Pattern(), &entity.Email{
		From:    uc.from,
		To:      p.To,
		Subject: "Seat Price Updated",
		Text:    text,
	})
}

func (uc *notificationUseCase) SendBookingDetailsEmail(ctx context.Context, p notify.BookingDetailsPayload) error {
	if err := p.Validate(); err != nil {
		return err
	}

	summary := bookingSummary(p.EventTitle, p.Time, p.Location, p.PaymentID)
	png, err := qrcode.Encode(summary, qrcode.Medium, qrSize)
	if err != nil {
		return fmt.Errorf("failed to encode booking qr code: %w", err)
	}
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)

	html, err := renderHTML(bookingHTML, struct {
		QRCode template.URL
	}{template.URL(dataURL)})
	if err != nil {
		return fmt.Errorf("failed to render booking email: %w", err)
	}

	return uc.send(ctx, p.Pattern(), &entity.Email{
		From:    uc.from,
		To:      p.To,
		Subject: fmt.Sprintf("Booking %s", p.Subject),
		Text:    summary,
		HTML:    html,
		Inline: []entity.InlineImage{{
			ContentID:   qrContentID,
			Filename:    "booking-qr.png",
			ContentType: "image/png",
			Data:        png,
			DataURL:     dataURL,
		}},
	})
}

// send hands email to the transport. Transport errors are returned unchanged.
func (uc *notificationUseCase) send(ctx context.Context, pattern notify.Pattern, email *entity.Email) error {
	if err := uc.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("mail rate limiter: %w", err)
	}

	response, err := uc.transport.Send(ctx, email)
	if err != nil {
		uc.logger.Error("[MAILER] Failed to send %s to %s: %v", pattern, email.To, err)
		uc.recordDelivery(ctx, pattern, email, entity.DeliveryStatusFailed, "", err)
		return err
	}

	uc.logger.Info("[MAILER] Email sent: pattern=%s to=%s response=%s", pattern, email.To, response)
	uc.recordDelivery(ctx, pattern, email, entity.DeliveryStatusSent, response, nil)
	return nil
}

func (uc *notificationUseCase) recordDelivery(ctx context.Context, pattern notify.Pattern, email *entity.Email, status, response string, sendErr error) {
	if uc.deliveryRepo == nil {
		return
	}

	delivery := &entity.Delivery{
		Pattern:  string(pattern),
		To:       email.To,
		Subject:  email.Subject,
		Status:   status,
		Response: response,
		SentAt:   time.Now().UTC(),
	}
	if sendErr != nil {
		delivery.Error = sendErr.Error()
	}

	if err := uc.deliveryRepo.Record(ctx, delivery); err != nil {
		uc.logger.Warn("Failed to record delivery for %s: %v", email.To, err)
	}
}

func (uc *notificationUseCase) QueueLength() (int, error) {
	if uc.queue == nil {
		return 0, fmt.Errorf("queue inspector not configured")
	}
	return uc.queue.QueueLength()
}

func (uc *notificationUseCase) RecentDeliveries(ctx context.Context, limit int) ([]*entity.Delivery, error) {
	if uc.deliveryRepo == nil {
		return []*entity.Delivery{}, nil
	}
	return uc.deliveryRepo.Recent(ctx, limit)
}
