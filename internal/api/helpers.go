package api

import (
	"strconv"
	"strings"

	domainerrors "github.com/platefulapp/plateful-server/internal/errors"
)

// parseBoolish interprets query values like "1"/"0"/"true"/"false".
// An empty value is false; anything unrecognized is a validation error.
func parseBoolish(param, value string) (bool, error) {
	switch value {
	case "", "0", "false":
		return false, nil
	case "1", "true":
		return true, nil
	default:
		return false, domainerrors.Validationf("%s must be a boolean value", param)
	}
}

// parseIDList parses a comma-separated list of integer IDs, e.g. "1,2,3".
// An empty value yields nil; any malformed element is a validation error
// rather than a silently ignored filter.
func parseIDList(param, value string) ([]int64, error) {
	if value == "" {
		return nil, nil
	}

	parts := strings.Split(value, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, domainerrors.Validationf("%s must be a comma-separated list of integer IDs", param)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
