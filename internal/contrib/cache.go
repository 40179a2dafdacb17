package contrib

import (
	"encoding/json"
	"fmt"
	"os"
)

// SaveFile writes the calendar to a pretty-printed JSON file, the raw
// format the generate command can replay without hitting the API.
func SaveFile(path string, cal *Calendar) error {
	data, err := json.MarshalIndent(cal, "", "  ")
	if err != nil {
		return fmt.Errorf("contrib: cannot encode calendar: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("contrib: cannot write %s: %w", path, err)
	}
	return nil
}

// LoadFile reads a calendar previously written by SaveFile.
func LoadFile(path string) (*Calendar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("contrib: cannot read %s: %w", path, err)
	}
	var cal Calendar
	if err := json.Unmarshal(data, &cal); err != nil {
		return nil, fmt.Errorf("contrib: cannot parse %s: %w", path, err)
	}
	return &cal, nil
}
