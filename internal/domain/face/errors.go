package face

import "errors"

var (
	ErrDescriptorNotFound      = errors.New("no face descriptor enrolled")
	ErrInvalidDescriptorLength = errors.New("face descriptor has wrong length")
	ErrDescriptorOutOfRange    = errors.New("face descriptor values out of range")
	ErrZeroDescriptor          = errors.New("face descriptor must not be all zeros")
)
