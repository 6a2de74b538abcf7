package errors

import (
	"slices"
	"strings"

	"portal/internal/domain/entity"
)

func joinKeys(fields entity.FieldErrors) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return strings.Join(keys, ",")
}
