package recommendations

import "errors"

var (
	// ErrInvalidRequest marks caller mistakes the handler reports as 400.
	ErrInvalidRequest = errors.New("invalid recommendation request")
	// ErrCatalogUnavailable wraps failures of the catalog collaborator.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrToolNotRanked is returned by Explain when the tool is not among the results.
	ErrToolNotRanked = errors.New("tool not among recommendations")
)
