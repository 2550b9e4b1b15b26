package tpmdev

import "errors"

var (
	ErrInvalidKind   = errors.New("unknown transport kind")
	ErrDeviceClosed  = errors.New("device is closed")
	ErrNotSimulator  = errors.New("powerup is only supported by the simulator transport")
	ErrContextClosed = errors.New("session context is closed")
)
