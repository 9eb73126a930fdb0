// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msgpack

// defaultBufferCapacity is the Source/Sink internal buffer size used when
// no WithSourceBufferCapacity/WithSinkBufferCapacity option is given.
const defaultBufferCapacity = 8192

// minBufferCapacity is the smallest legal buffer capacity: a tag byte
// plus an 8-byte payload (the widest fixed-size primitive, uint64/
// float64/int64).
const minBufferCapacity = 9

// defaultIdentifierCacheLimit and defaultMaxIdentifierLength are the
// Reader's identifier-interning cache defaults.
const (
	defaultIdentifierCacheLimit  = 1024
	defaultMaxIdentifierLength   = 64
)

// defaultStringSizeEstimator reserves charCount*3 bytes for a UTF-8
// string header class, the conservative upper bound for any rune that
// is not outside the basic multilingual plane encoded with Go's []rune.
func defaultStringSizeEstimator(charCount int) int {
	return charCount * 3
}

// SourceOption configures a Source at construction time.
type SourceOption func(*sourceConfig)

type sourceConfig struct {
	allocator      *Allocator
	bufferCapacity int
	logger         Logger
}

func newSourceConfig(opts ...SourceOption) sourceConfig {
	cfg := sourceConfig{
		bufferCapacity: defaultBufferCapacity,
		logger:         noopLogger{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.allocator == nil {
		cfg.allocator = NewUnpooledAllocator()
	}
	return cfg
}

// WithSourceAllocator supplies the Allocator a Source acquires its
// internal buffer from. Defaults to a private unpooled allocator.
func WithSourceAllocator(a *Allocator) SourceOption {
	return func(c *sourceConfig) { c.allocator = a }
}

// WithSourceBufferCapacity sets the Source's internal buffer capacity.
// Defaults to 8 KiB; NewSource raises a value below 9 to 9.
func WithSourceBufferCapacity(n int) SourceOption {
	return func(c *sourceConfig) { c.bufferCapacity = n }
}

// WithSourceLogger installs a diagnostic logger on the Source.
func WithSourceLogger(l Logger) SourceOption {
	return func(c *sourceConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// SinkOption configures a Sink at construction time.
type SinkOption func(*sinkConfig)

type sinkConfig struct {
	allocator      *Allocator
	bufferCapacity int
	logger         Logger
}

func newSinkConfig(opts ...SinkOption) sinkConfig {
	cfg := sinkConfig{
		bufferCapacity: defaultBufferCapacity,
		logger:         noopLogger{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.allocator == nil {
		cfg.allocator = NewUnpooledAllocator()
	}
	return cfg
}

// WithSinkAllocator supplies the Allocator a Sink acquires its internal
// buffer from. Defaults to a private unpooled allocator.
func WithSinkAllocator(a *Allocator) SinkOption {
	return func(c *sinkConfig) { c.allocator = a }
}

// WithSinkBufferCapacity sets the Sink's internal buffer capacity.
// Defaults to 8 KiB; NewSink raises a value below 9 to 9.
func WithSinkBufferCapacity(n int) SinkOption {
	return func(c *sinkConfig) { c.bufferCapacity = n }
}

// WithSinkLogger installs a diagnostic logger on the Sink.
func WithSinkLogger(l Logger) SinkOption {
	return func(c *sinkConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// ReaderOption configures a Reader at construction time.
type ReaderOption func(*readerConfig)

type readerConfig struct {
	allocator             *Allocator
	identifierCacheLimit  int
	maxIdentifierLength   int
}

func newReaderConfig(opts ...ReaderOption) readerConfig {
	cfg := readerConfig{
		identifierCacheLimit: defaultIdentifierCacheLimit,
		maxIdentifierLength:  defaultMaxIdentifierLength,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithReaderAllocator supplies the Allocator a Reader uses for decode
// scratch space (e.g. oversized string payloads). Defaults to a private
// unpooled allocator.
func WithReaderAllocator(a *Allocator) ReaderOption {
	return func(c *readerConfig) { c.allocator = a }
}

// WithIdentifierCacheLimit sets the maximum number of entries retained in
// the Reader's identifier-interning cache. Defaults to 1024.
func WithIdentifierCacheLimit(n int) ReaderOption {
	return func(c *readerConfig) { c.identifierCacheLimit = n }
}

// WithMaxIdentifierLength sets the maximum byte length of a string
// eligible for identifier interning. Defaults to 64.
func WithMaxIdentifierLength(n int) ReaderOption {
	return func(c *readerConfig) { c.maxIdentifierLength = n }
}

// WriterOption configures a Writer at construction time.
type WriterOption func(*writerConfig)

type writerConfig struct {
	allocator        *Allocator
	stringSizeEstimator func(charCount int) int
}

func newWriterConfig(opts ...WriterOption) writerConfig {
	cfg := writerConfig{
		stringSizeEstimator: defaultStringSizeEstimator,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithWriterAllocator supplies the Allocator a Writer uses for the UTF-8
// scratch buffer that WriteRunes acquires on every call. WriteString and
// WriteBytes do not use it. Defaults to a private unpooled allocator.
func WithWriterAllocator(a *Allocator) WriterOption {
	return func(c *writerConfig) { c.allocator = a }
}

// WithStringSizeEstimator overrides the function used to reserve a
// string header width before the UTF-8 byte length is known (used by
// WriteRunes). Defaults to charCount*3.
func WithStringSizeEstimator(f func(charCount int) int) WriterOption {
	return func(c *writerConfig) {
		if f != nil {
			c.stringSizeEstimator = f
		}
	}
}
