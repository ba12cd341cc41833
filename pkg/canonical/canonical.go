// Package canonical produces a byte-stable JSON form of content values so
// that two encodings of the same lesson can be compared or fingerprinted.
package canonical

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"golang.org/x/crypto/blake2b"
)

// ErrInvalidJSON is returned when input bytes are not valid JSON.
var ErrInvalidJSON = errors.New("canonical: invalid JSON")

var sortOpts = &pretty.Options{SortKeys: true}

// JSON encodes v and returns its canonical form: compact, object keys sorted,
// no HTML escaping.
func JSON(v any) ([]byte, error) {
	raw, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	return Normalize(raw)
}

// Marshal encodes v without HTML escaping and without a trailing newline.
// Key order of ordered types is kept.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("canonical: encode: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Normalize rewrites already-encoded JSON into canonical form. String values
// and keys are decoded and re-encoded, so "M\u00fcl", "a\/b" and a raw U+2028
// compare equal to what Marshal produces for the same text.
func Normalize(raw []byte) ([]byte, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrInvalidJSON
	}

	var buf bytes.Buffer
	if err := reencode(&buf, gjson.ParseBytes(raw)); err != nil {
		return nil, err
	}
	return pretty.Ugly(pretty.PrettyOptions(buf.Bytes(), sortOpts)), nil
}

// reencode writes v with every string passed through Marshal's escaping.
// Numbers, booleans and null are copied verbatim.
func reencode(buf *bytes.Buffer, v gjson.Result) error {
	var err error
	switch {
	case v.IsObject():
		buf.WriteByte('{')
		first := true
		v.ForEach(func(key, value gjson.Result) bool {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			if err = writeString(buf, key.String()); err != nil {
				return false
			}
			buf.WriteByte(':')
			err = reencode(buf, value)
			return err == nil
		})
		buf.WriteByte('}')
	case v.IsArray():
		buf.WriteByte('[')
		first := true
		v.ForEach(func(_, value gjson.Result) bool {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			err = reencode(buf, value)
			return err == nil
		})
		buf.WriteByte(']')
	case v.Type == gjson.String:
		err = writeString(buf, v.String())
	default:
		buf.WriteString(v.Raw)
	}
	return err
}

func writeString(buf *bytes.Buffer, s string) error {
	b, err := Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// Without removes top-level keys (sjson paths) from an encoded JSON object.
// Missing keys are ignored.
func Without(raw []byte, paths ...string) ([]byte, error) {
	out := raw
	for _, p := range paths {
		var err error
		out, err = sjson.DeleteBytes(out, p)
		if err != nil {
			return nil, fmt.Errorf("canonical: delete %q: %w", p, err)
		}
	}
	return out, nil
}

// Fingerprint returns the hex blake2b-256 digest of b.
func Fingerprint(b []byte) string {
	sum := blake2b.Sum256(b)
	return hex.EncodeToString(sum[:])
}
