package content

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DecodeMediaMetadata converts a stored attachment metadata value into
// MediaMetadata. Values loaded from fixtures arrive as generic maps and are
// decoded through YAML.
func DecodeMediaMetadata(v any) (MediaMetadata, error) {
	switch m := v.(type) {
	case nil:
		return MediaMetadata{}, nil
	case MediaMetadata:
		return m, nil
	case *MediaMetadata:
		if m == nil {
			return MediaMetadata{}, nil
		}
		return *m, nil
	}
	raw, err := yaml.Marshal(v)
	if err != nil {
		return MediaMetadata{}, fmt.Errorf("encode media metadata: %w", err)
	}
	var out MediaMetadata
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return MediaMetadata{}, fmt.Errorf("decode media metadata: %w", err)
	}
	return out, nil
}
