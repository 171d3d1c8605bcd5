package persistent

import (
	"event-booking/services/core/internal/entity"
	"event-booking/services/core/internal/model"
)

func ToEventEntity(m *model.EventModel) *entity.Event {
	if m == nil {
		return nil
	}
	return &entity.Event{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Date:        m.Date.UTC(),
		Location:    m.Location,
		SeatPrice:   m.SeatPrice,
		BannerURL:   m.BannerURL,
		OrganizerID: m.OrganizerID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func ToEventModel(e *entity.Event) *model.EventModel {
	if e == nil {
		return nil
	}
	return &model.EventModel{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date.UTC(),
		Location:    e.Location,
		SeatPrice:   e.SeatPrice,
		BannerURL:   e.BannerURL,
		OrganizerID: e.OrganizerID,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func ToBookingEntity(m *model.BookingModel) *entity.Booking {
	if m == nil {
		return nil
	}
	return &entity.Booking{
		ID:              m.ID,
		EventID:         m.EventID,
		UserID:          m.UserID,
		PaymentID:       m.PaymentID,
		CalendarEventID: m.CalendarEventID,
		CreatedAt:       m.CreatedAt,
		Event:           ToEventEntity(m.Event),
	}
}

func ToBookingModel(e *entity.Booking) *model.BookingModel {
	if e == nil {
		return nil
	}
	return &model.BookingModel{
		ID:              e.ID,
		EventID:         e.EventID,
		UserID:          e.UserID,
		PaymentID:       e.PaymentID,
		CalendarEventID: e.CalendarEventID,
		CreatedAt:       e.CreatedAt,
	}
}
