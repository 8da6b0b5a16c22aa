package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// EncodeToken creates an opaque cursor from a group date, creation time and
// entry ID. The triple uniquely identifies the last item of a page; listing
// resumes strictly after it, which keeps pagination stable while new entries
// are appended. Creation time alone is not enough: every entry of one
// transaction group shares the same timestamp, so the entry ID breaks the tie
// when a page boundary falls inside a group.
func EncodeToken(groupDate time.Time, createdAt time.Time, entryID string) string {
	tokenStr := fmt.Sprintf("%s|%s|%s", groupDate.Format(timeFormat), createdAt.Format(timeFormat), entryID)
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses a cursor back into its group date, creation time and
// entry ID.
func DecodeToken(token string) (time.Time, time.Time, string, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, time.Time{}, "", fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 3)
	if len(parts) != 3 {
		return time.Time{}, time.Time{}, "", fmt.Errorf("invalid pagination token format (split)")
	}

	groupDate, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, time.Time{}, "", fmt.Errorf("invalid pagination token format (group date parse): %w", err)
	}

	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return time.Time{}, time.Time{}, "", fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}

	if parts[2] == "" {
		return time.Time{}, time.Time{}, "", fmt.Errorf("invalid pagination token format (empty entry id)")
	}

	return groupDate, createdAt, parts[2], nil
}
