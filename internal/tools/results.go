package tools

import (
	"fmt"
	"strconv"
	"strings"
)

// Status discriminator values tools return.
const (
	StatusSuccess   = "success"
	StatusError     = "error"
	StatusCached    = "cached"
	StatusNoResults = "no_results"
	StatusNotFound  = "not_found"
	StatusNoJobs    = "no_jobs"
)

func successResult(fields map[string]any) Result {
	r := Result{"status": StatusSuccess}
	for k, v := range fields {
		r[k] = v
	}
	return r
}

func errorResult(message string) Result {
	return Result{"status": StatusError, "error": message}
}

func statusResult(status string, fields map[string]any) Result {
	r := Result{"status": status}
	for k, v := range fields {
		r[k] = v
	}
	return r
}

// stringArg reads a string argument, tolerating absent keys.
func stringArg(args map[string]any, key string) string {
	v, ok := args[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Sprintf("%v", v)
	}
	return strings.TrimSpace(s)
}

// intArg reads an integer argument. Backends deliver numbers as float64
// through JSON, and occasionally as strings.
func intArg(args map[string]any, key string, fallback int) int {
	v, ok := args[key]
	if !ok || v == nil {
		return fallback
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolArg(args map[string]any, key string, fallback bool) bool {
	v, ok := args[key]
	if !ok || v == nil {
		return fallback
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(b)); err == nil {
			return parsed
		}
	}
	return fallback
}

// stringSliceArg reads a list argument delivered either as []any or as a
// comma separated string.
func stringSliceArg(args map[string]any, key string) []string {
	v, ok := args[key]
	if !ok || v == nil {
		return nil
	}
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case string:
		var out []string
		for _, part := range strings.Split(list, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	}
	return nil
}
