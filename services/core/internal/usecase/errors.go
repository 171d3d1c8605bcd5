package usecase

import "errors"

var (
	ErrEventNotFound         = errors.New("event does not exist")
	ErrBookingNotFound       = errors.New("booking does not exist")
	ErrForbidden             = errors.New("you can only modify resources you own")
	ErrInvalidPrice          = errors.New("seat price cannot be negative")
	ErrOwnEvent              = errors.New("you cannot book an event in which you are the organizer")
	ErrEventNotFree          = errors.New("event is not free")
	ErrEventIsFree           = errors.New("event is free, use a free booking")
	ErrAlreadyBooked         = errors.New("you have already booked this event")
	ErrBannerStorageDisabled = errors.New("banner storage is not configured")
	ErrCalendarDisabled      = errors.New("google calendar is not configured")
	ErrCalendarNotConnected  = errors.New("google calendar not connected")
	ErrInvalidState          = errors.New("invalid or expired oauth state")
)
