package fleet

import "errors"

var (
	// ErrDeviceNotFound indicates an unknown device id
	ErrDeviceNotFound = errors.New("device not found")

	// ErrCommandNotFound indicates an unknown command id
	ErrCommandNotFound = errors.New("command not found")

	// ErrCodeNotFound indicates an activation code that does not exist
	// or has already been redeemed
	ErrCodeNotFound = errors.New("activation code not found")

	// ErrCodeExpired indicates an activation code past its deadline
	ErrCodeExpired = errors.New("activation code expired")

	// ErrDuplicateName indicates an active device with the same name
	// already exists in the tenant
	ErrDuplicateName = errors.New("device name already in use")

	// ErrDuplicateDeviceID indicates the posted device id is already
	// registered
	ErrDuplicateDeviceID = errors.New("device id already in use")

	// ErrUnknownCommand indicates a command name outside the vocabulary
	ErrUnknownCommand = errors.New("unknown command")

	// ErrNoFCMToken indicates the device has no registered push token
	ErrNoFCMToken = errors.New("device has no FCM token")

	// ErrValidation indicates a malformed field or params payload
	ErrValidation = errors.New("validation error")

	// ErrOutsideHours indicates a check-in attempt outside the
	// device's operating hours
	ErrOutsideHours = errors.New("outside operating hours")
)
