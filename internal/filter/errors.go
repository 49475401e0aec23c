package filter

import "errors"

var (
	// ErrConfig reports an unusable picture or CTU geometry.
	ErrConfig = errors.New("alf: invalid configuration")
	// ErrMissingAPS reports a slice referencing an APS id with no payload.
	ErrMissingAPS = errors.New("alf: referenced APS is missing")
	// ErrFilterSet reports a per-CTU luma filter-set index outside the
	// fixed sets and the slice's APS list.
	ErrFilterSet = errors.New("alf: filter set index out of range")
	// ErrAlternative reports a per-CTU chroma alternative that the chroma
	// APS does not carry.
	ErrAlternative = errors.New("alf: chroma alternative out of range")
	// ErrPicture reports a picture whose planes do not match the configuration.
	ErrPicture = errors.New("alf: picture does not match configuration")
	// ErrParams reports malformed slice, CTU or APS parameters.
	ErrParams = errors.New("alf: invalid parameters")
)
