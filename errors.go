package alf

import "github.com/deepteams/alf/internal/filter"

// Errors returned by New, Process and Classify. Returned errors wrap one of
// these and carry context; test with errors.Is.
var (
	ErrConfig      = filter.ErrConfig
	ErrMissingAPS  = filter.ErrMissingAPS
	ErrFilterSet   = filter.ErrFilterSet
	ErrAlternative = filter.ErrAlternative
	ErrPicture     = filter.ErrPicture
	ErrParams      = filter.ErrParams
)
