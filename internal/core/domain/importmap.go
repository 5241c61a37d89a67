package domain

import (
	"bytes"
	"encoding/json"

	"go.trai.ch/zerr"
)

// Binding is the resolved outcome for one shared dependency.
type Binding struct {
	// Name is the logical import name.
	Name string
	// URL is where the runtime loader fetches the dependency from.
	URL string
	// Integrity is the optional "<algorithm>-<base64>" digest of the content behind URL.
	Integrity string
}

// Mapping is a string map that remembers insertion order.
// The zero value is ready to use.
type Mapping struct {
	keys   []string
	values map[string]string
}

// Set inserts or overwrites key. Overwriting keeps the original position.
func (m *Mapping) Set(key, value string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for key.
func (m Mapping) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Len returns the number of keys.
func (m Mapping) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m Mapping) Keys() []string {
	return append([]string(nil), m.keys...)
}

// MarshalJSON encodes the mapping as a JSON object in insertion order.
func (m Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of strings, keeping the document order.
func (m *Mapping) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return zerr.New("expected json object")
	}
	*m = Mapping{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var value string
		if err := dec.Decode(&value); err != nil {
			return zerr.With(zerr.Wrap(err, "expected string value"), "key", key)
		}
		m.Set(key, value)
	}
	_, err = dec.Token()
	return err
}

// ImportMap is the artifact handed to the browser's module loader.
type ImportMap struct {
	Imports   Mapping
	Integrity Mapping
}

type importMapJSON struct {
	Imports   Mapping  `json:"imports"`
	Integrity *Mapping `json:"integrity,omitempty"`
}

// MarshalJSON encodes the import map; "integrity" is omitted when no binding carries a digest.
func (im ImportMap) MarshalJSON() ([]byte, error) {
	doc := importMapJSON{Imports: im.Imports}
	if im.Integrity.Len() > 0 {
		integrity := im.Integrity
		doc.Integrity = &integrity
	}
	return json.Marshal(doc)
}

// UnmarshalJSON decodes an import map document.
func (im *ImportMap) UnmarshalJSON(data []byte) error {
	var doc importMapJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	im.Imports = doc.Imports
	im.Integrity = Mapping{}
	if doc.Integrity != nil {
		im.Integrity = *doc.Integrity
	}
	return nil
}

// JSON returns the compact encoding used for inline script elements.
func (im ImportMap) JSON() ([]byte, error) {
	data, err := json.Marshal(im)
	if err != nil {
		return nil, zerr.Wrap(err, ErrImportMapMarshalFailed.Error())
	}
	return data, nil
}

// IndentedJSON returns the two-space indented encoding used for the import map file.
func (im ImportMap) IndentedJSON() ([]byte, error) {
	data, err := im.JSON()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, zerr.Wrap(err, ErrImportMapMarshalFailed.Error())
	}
	return buf.Bytes(), nil
}
