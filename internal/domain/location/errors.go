package location

import "errors"

var (
	ErrLocationNotFound = errors.New("work location not found")
	ErrLocationNameUsed = errors.New("work location name already exists")
	ErrLocationInactive = errors.New("work location is inactive")
)
