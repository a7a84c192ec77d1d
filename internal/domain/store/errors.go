package store

import "errors"

var (
	ErrItemNotFound        = errors.New("store item not found")
	ErrDeviceNotFound      = errors.New("device not found")
	ErrDeviceNotAssignable = errors.New("device does not exist or is already assigned")
)
