package utils

import (
	"fmt"
	"strconv"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// ParsePageParams parses offset and limit query values, applying defaults
// for missing ones. Errors describe the offending parameter and map to a
// 422 response.
func ParsePageParams(offsetRaw, limitRaw string) (int, int, error) {
	offset := 0
	if offsetRaw != "" {
		parsed, err := strconv.Atoi(offsetRaw)
		if err != nil {
			return 0, 0, fmt.Errorf("offset must be an integer")
		}
		offset = parsed
	}
	if offset < 0 {
		return 0, 0, fmt.Errorf("offset must be greater than or equal to 0")
	}

	limit := DefaultPageLimit
	if limitRaw != "" {
		parsed, err := strconv.Atoi(limitRaw)
		if err != nil {
			return 0, 0, fmt.Errorf("limit must be an integer")
		}
		limit = parsed
	}
	if limit < 1 {
		return 0, 0, fmt.Errorf("limit must be greater than or equal to 1")
	}
	if limit > MaxPageLimit {
		return 0, 0, fmt.Errorf("limit must be less than or equal to %d", MaxPageLimit)
	}

	return offset, limit, nil
}
