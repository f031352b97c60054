package clientid

import (
	"fmt"
	"path/filepath"
	"strings"

	"mechanicflow/internal/services"
)

// DateFormat is the layout of the date segment and of date folder names.
const DateFormat = "2006-01-02"

// sanitizer replaces the characters Windows forbids in file names.
var sanitizer = strings.NewReplacer(
	"<", "_",
	">", "_",
	":", "_",
	`"`, "_",
	"/", "_",
	`\`, "_",
	"|", "_",
	"?", "_",
	"*", "_",
)

// Sanitize replaces forbidden filesystem characters with underscores and
// trims surrounding whitespace. Idempotent.
func Sanitize(name string) string {
	return strings.TrimSpace(sanitizer.Replace(name))
}

// ID is the decoded form of a client identifier.
type ID struct {
	Name      string
	Date      string
	Timestamp string
}

// Build constructs a client id from a display name, a date folder name, and a
// millisecond timestamp. The name is sanitized before encoding.
func Build(name, date string, millis int64) string {
	return fmt.Sprintf("%s_%s_%d", Sanitize(name), date, millis)
}

// String re-encodes the id into its wire form.
func (id ID) String() string {
	return id.Name + "_" + id.Date + "_" + id.Timestamp
}

// Parse splits an id into its segments. The timestamp and date are popped
// positionally from the right; everything before them is the name.
func Parse(raw string) (ID, error) {
	parts := strings.Split(raw, "_")
	if len(parts) < 3 {
		return ID{}, services.Wrap(services.ErrMalformedID, "clientid", "parse",
			fmt.Sprintf("id %q needs name, date, and timestamp segments", raw), nil)
	}
	timestamp := parts[len(parts)-1]
	date := parts[len(parts)-2]
	name := strings.Join(parts[:len(parts)-2], "_")
	return ID{Name: name, Date: date, Timestamp: timestamp}, nil
}

// ResolvePath maps an id to its client directory under base.
func ResolvePath(base, raw string) (string, error) {
	id, err := Parse(raw)
	if err != nil {
		return "", err
	}
	return filepath.Join(base, id.Name, id.Date), nil
}
