package nonvol

import (
	"encoding/hex"
	"fmt"
	"io"
)

// Bytes is an opaque byte blob. It backs unknown group payloads and raw
// fields whose semantics are not modeled; the contents round-trip untouched.
type Bytes struct {
	size int // -1 means consume everything available
	data []byte
	set  bool
}

// NewBytes returns a blob that reads exactly size bytes.
func NewBytes(size int) *Bytes {
	return &Bytes{size: size}
}

// NewBytesAll returns a blob that consumes the rest of its source.
func NewBytesAll() *Bytes {
	return &Bytes{size: -1}
}

// BytesOf wraps existing data in a blob.
func BytesOf(data []byte) *Bytes {
	return &Bytes{size: len(data), data: data, set: true}
}

func (b *Bytes) Data() []byte { return b.data }
func (b *Bytes) IsSet() bool { return b.set }
func (b *Bytes) TypeName() string { return "bytes" }

func (b *Bytes) Bytes() int {
	if b.set || b.size < 0 {
		return len(b.data)
	}
	return b.size
}

func (b *Bytes) Read(r io.Reader) error {
	if b.size >= 0 {
		buf := make([]byte, b.size)
		if err := readFull(r, buf); err != nil {
			return err
		}
		b.data = buf
		b.set = true
		return nil
	}

	buf, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	b.data = buf
	b.set = true
	return nil
}

func (b *Bytes) Write(w io.Writer) error {
	_, err := w.Write(b.data)
	return err
}

// Parse accepts a hex string; the decoded length must match for fixed-size
// blobs.
func (b *Bytes) Parse(s string) error {
	data, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("%w: bad hex: %v", ErrParse, err)
	}
	if b.size >= 0 && len(data) != b.size {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrParse, b.size, len(data))
	}
	b.data = data
	b.set = true
	return nil
}

func (b *Bytes) Pretty() string {
	return hex.EncodeToString(b.data)
}
