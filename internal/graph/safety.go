package graph

import (
	"strings"

	"linguachat/pkg/errors"
)

// forbiddenFragments reject any query containing a destructive keyword,
// case-insensitively.
var forbiddenFragments = []string{
	"DROP",
	"DELETE ALL",
	"DETACH DELETE ALL",
	"REMOVE",
}

// allowedStarts is the closed set of verbs a query may begin with
var allowedStarts = []string{
	"CREATE",
	"MERGE",
	"MATCH",
	"SET",
	"WITH",
}

// ValidateCypher is the safety gate applied to every query before
// execution. Rejected queries are treated as zero-result by callers,
// never propagated as request failures.
func ValidateCypher(query string) error {
	upper := strings.ToUpper(query)

	for _, fragment := range forbiddenFragments {
		if strings.Contains(upper, fragment) {
			return errors.NewGraphQueryRejected(query, "destructive keyword: "+fragment)
		}
	}

	trimmed := strings.TrimSpace(upper)
	for _, verb := range allowedStarts {
		if strings.HasPrefix(trimmed, verb) {
			return nil
		}
	}
	return errors.NewGraphQueryRejected(query, "query must begin with an allowed verb")
}
