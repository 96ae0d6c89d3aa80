package fileio

import (
	"encoding/json"
	"fmt"
	"os"
)

// ReadJSON decodes file into generic values (maps, slices, float64, string, bool, nil).
func (f *IO) ReadJSON(file string) (any, error) {
	var v any
	if err := f.ReadJSONInto(file, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// ReadJSONInto decodes file into v.
func (f *IO) ReadJSONInto(file string, v any) error {
	raw, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("fileio: read %s: %w", file, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("fileio: parse json %s: %w", file, err)
	}
	return nil
}

// WriteJSON replaces file with the JSON encoding of data.
func (f *IO) WriteJSON(data any, file string) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("%w: json: %v", ErrBadData, err)
	}
	return writeFileAtomic(file, raw, f.perm())
}
