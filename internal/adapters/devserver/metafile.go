package devserver

import "encoding/json"

// metafileInputs returns the input keys of an esbuild metafile.
func metafileInputs(raw string) []string {
	var meta struct {
		Inputs map[string]json.RawMessage `json:"inputs"`
	}
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return nil
	}
	keys := make([]string, 0, len(meta.Inputs))
	for k := range meta.Inputs {
		keys = append(keys, k)
	}
	return keys
}
