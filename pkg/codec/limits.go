package codec

// Limits defines resource limits applied while encoding and decoding.
// gluino's schema already bounds most structure sizes (Fixed/Range/
// GreaterThan/LessThan), but a Variable size has no schema-level ceiling —
// Limits is what stops a malicious or corrupt input from requesting an
// unbounded allocation before the bytes to fill it have even been read.
type Limits struct {
	// MaxMessageSize is the maximum number of bytes a single top-level value
	// may occupy: Deserialize rejects a value whose encoding is longer, and a
	// Writer refuses to grow its buffer beyond it. Zero means no limit.
	MaxMessageSize int64

	// MaxDepth is the maximum nesting depth of Optional/List/Map/Record/
	// Tuple/Enum/Union. Zero means no limit.
	MaxDepth int

	// MaxStringLength is the maximum wire length, in bytes of the schema's
	// declared encoding (before transcoding), of a String value. Zero means
	// no limit.
	MaxStringLength int

	// MaxBytesLength is the maximum length of a Bytes value. Zero means no
	// limit.
	MaxBytesLength int

	// MaxCollectionLength is the maximum element count of a List, or
	// entry count of a Map. Zero means no limit.
	MaxCollectionLength int
}

// DefaultLimits are generous limits suitable for trusted input.
var DefaultLimits = Limits{
	MaxMessageSize:      64 * 1024 * 1024,
	MaxDepth:            100,
	MaxStringLength:     10 * 1024 * 1024,
	MaxBytesLength:      100 * 1024 * 1024,
	MaxCollectionLength: 1_000_000,
}

// SecureLimits are conservative limits for untrusted input.
var SecureLimits = Limits{
	MaxMessageSize:      1 * 1024 * 1024,
	MaxDepth:            32,
	MaxStringLength:     1 * 1024 * 1024,
	MaxBytesLength:      10 * 1024 * 1024,
	MaxCollectionLength: 10_000,
}

// NoLimits disables all resource limits. Use only for trusted input.
var NoLimits = Limits{}

// Options configures encoding and decoding behavior.
type Options struct {
	// Limits specifies resource limits applied during decoding (and, for
	// MaxDepth and MaxMessageSize, during encoding too).
	Limits Limits

	// ValidateText validates that decoded String bytes are well-formed
	// under their schema's declared encoding (UTF-8, UTF-16, or ASCII).
	ValidateText bool

	// DeterministicMaps sorts Map pairs by their encoded key bytes before
	// writing, so two Values that are equal as sets of pairs always
	// produce identical wire bytes. Disable for speed when determinism is
	// not required.
	DeterministicMaps bool
}

// DefaultOptions are the default encoding/decoding options.
var DefaultOptions = Options{
	Limits:            DefaultLimits,
	ValidateText:      true,
	DeterministicMaps: true,
}

// SecureOptions are conservative options for untrusted input.
var SecureOptions = Options{
	Limits:            SecureLimits,
	ValidateText:      true,
	DeterministicMaps: true,
}

// FastOptions prioritize throughput over determinism and text validation.
var FastOptions = Options{
	Limits:            DefaultLimits,
	ValidateText:      false,
	DeterministicMaps: false,
}
