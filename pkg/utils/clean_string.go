package utils

import "strings"

// CleanStringSlice trims spaces from each part and drops the empty ones, e.g. a split If-None-Match list.
func CleanStringSlice(parts []string) []string {
	result := make([]string, 0)
	for _, item := range parts {
		if cleaned := strings.Trim(item, " "); cleaned != "" {
			result = append(result, cleaned)
		}
	}
	return result
}
