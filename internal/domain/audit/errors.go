package audit

import "errors"

var (
	ErrEventNotFound    = errors.New("audit event not found")
	ErrInvalidRiskLevel = errors.New("invalid risk level")
	ErrQueueFull        = errors.New("audit queue is full")
)
