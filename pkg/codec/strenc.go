package codec

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	"github.com/blockberries/gluino/pkg/spec"
)

var utf16LE = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// encodeText transcodes s from its native Go (UTF-8) form into the wire
// bytes for the given schema encoding.
func encodeText(s string, enc spec.StringEncoding) ([]byte, error) {
	switch enc {
	case spec.Utf8:
		return []byte(s), nil
	case spec.Ascii:
		for i := 0; i < len(s); i++ {
			if s[i] >= 0x80 {
				return nil, ErrInvalidUTF8
			}
		}
		return []byte(s), nil
	case spec.Utf16:
		enc := utf16LE.NewEncoder()
		out, err := enc.String(s)
		if err != nil {
			return nil, err
		}
		return []byte(out), nil
	default:
		return nil, ErrInvalidUTF8
	}
}

// decodeText transcodes wire bytes under the given schema encoding into a
// native Go (UTF-8) string. When validate is false, malformed bytes are
// passed through rather than rejected (ASCII high bits and invalid UTF-8
// are preserved byte-for-byte via Go's WTF-8-like lenient string cast).
func decodeText(data []byte, enc spec.StringEncoding, validate bool) (string, error) {
	switch enc {
	case spec.Utf8:
		if validate && !utf8.Valid(data) {
			return "", ErrInvalidUTF8
		}
		return string(data), nil
	case spec.Ascii:
		if validate {
			for _, b := range data {
				if b >= 0x80 {
					return "", ErrInvalidUTF8
				}
			}
		}
		return string(data), nil
	case spec.Utf16:
		dec := utf16LE.NewDecoder()
		out, err := dec.Bytes(data)
		if err != nil {
			return "", ErrInvalidUTF8
		}
		if validate && !utf8.Valid(out) {
			return "", ErrInvalidUTF8
		}
		return string(out), nil
	default:
		return "", ErrInvalidUTF8
	}
}
