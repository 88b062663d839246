package main

import "strings"

func truncate(value string, max int) string {
	value = strings.TrimSpace(strings.ReplaceAll(value, "\n", " "))
	if max <= 3 || len(value) <= max {
		return value
	}
	return value[:max-3] + "..."
}
