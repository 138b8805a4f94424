package errors

import "errors"

var (
	ErrKioskNotFound          = errors.New("kiosk not found")
	ErrSettingNotFound        = errors.New("discount setting not found")
	ErrInvalidSettingInput    = errors.New("invalid discount setting input")
	ErrInvalidKioskInput      = errors.New("invalid kiosk input")
	ErrEmptyKioskSelection    = errors.New("kiosk selection is empty")
	ErrDuplicateKioskSelected = errors.New("kiosk selected more than once")
)
