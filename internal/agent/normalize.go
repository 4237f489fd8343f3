package agent

import (
	"fmt"
	"strings"
)

// Normalize reduces a final answer to a single display string: text
// segments newline-joined in original order, or the plain text when no
// segments are present. A non-empty raw answer never normalizes to the
// empty string.
func Normalize(answer *Answer) string {
	if answer == nil {
		return ""
	}

	if len(answer.Segments) > 0 {
		var texts []string
		for _, seg := range answer.Segments {
			if seg.Type == SegmentText && seg.Text != "" {
				texts = append(texts, seg.Text)
			}
		}
		if len(texts) > 0 {
			return strings.Join(texts, "\n")
		}
		// No text segments: fall back to a stringified view of the raw
		// segments rather than returning empty.
		if answer.Text != "" {
			return answer.Text
		}
		return fmt.Sprintf("%v", answer.Segments)
	}

	return answer.Text
}
