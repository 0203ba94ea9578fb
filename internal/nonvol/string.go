package nonvol

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
)

// FString is a fixed-length string field. Shorter parsed values are padded
// with zero bytes; the stored length never changes.
type FString struct {
	size int
	data []byte
	set  bool
}

// NewFString returns an empty fixed string of the given byte length.
func NewFString(size int) *FString {
	return &FString{size: size}
}

func (s *FString) Bytes() int { return s.size }
func (s *FString) IsSet() bool { return s.set }
func (s *FString) TypeName() string { return fmt.Sprintf("fstring[%d]", s.size) }

func (s *FString) Read(r io.Reader) error {
	buf := make([]byte, s.size)
	if err := readFull(r, buf); err != nil {
		return err
	}
	s.data = buf
	s.set = true
	return nil
}

func (s *FString) Write(w io.Writer) error {
	buf := s.data
	if buf == nil {
		buf = make([]byte, s.size)
	}
	_, err := w.Write(buf)
	return err
}

func (s *FString) Parse(text string) error {
	if len(text) > s.size {
		return fmt.Errorf("%w: %q exceeds %d bytes", ErrParse, text, s.size)
	}
	buf := make([]byte, s.size)
	copy(buf, text)
	s.data = buf
	s.set = true
	return nil
}

// Pretty renders the string up to the first zero byte.
func (s *FString) Pretty() string {
	str := s.data
	if i := bytes.IndexByte(str, 0); i >= 0 {
		str = str[:i]
	}
	return strconv.Quote(string(str))
}

// String returns the raw string content without quoting.
func (s *FString) String() string {
	str := s.data
	if i := bytes.IndexByte(str, 0); i >= 0 {
		str = str[:i]
	}
	return string(str)
}

// PString is a length-prefixed string. Width selects the prefix size in
// bytes (1 or 2); two-byte prefixes are big-endian.
type PString struct {
	width int
	data  []byte
	set   bool
}

// NewPString returns an empty length-prefixed string with the given prefix
// width. Widths other than 1 and 2 panic; schemas are static data, so this
// is a programming error, not an input error.
func NewPString(width int) *PString {
	if width != 1 && width != 2 {
		panic(fmt.Sprintf("pstring prefix width must be 1 or 2, got %d", width))
	}
	return &PString{width: width}
}

func (s *PString) Bytes() int { return s.width + len(s.data) }
func (s *PString) IsSet() bool { return s.set }
func (s *PString) TypeName() string { return "pstring" }

func (s *PString) maxLen() int {
	if s.width == 1 {
		return 0xff
	}
	return 0xffff
}

func (s *PString) Read(r io.Reader) error {
	prefix := make([]byte, s.width)
	if err := readFull(r, prefix); err != nil {
		return err
	}

	var n int
	if s.width == 1 {
		n = int(prefix[0])
	} else {
		n = int(binary.BigEndian.Uint16(prefix))
	}

	buf := make([]byte, n)
	if err := readFull(r, buf); err != nil {
		return err
	}
	s.data = buf
	s.set = true
	return nil
}

func (s *PString) Write(w io.Writer) error {
	prefix := make([]byte, s.width)
	if s.width == 1 {
		prefix[0] = byte(len(s.data))
	} else {
		binary.BigEndian.PutUint16(prefix, uint16(len(s.data)))
	}
	if _, err := w.Write(prefix); err != nil {
		return err
	}
	_, err := w.Write(s.data)
	return err
}

func (s *PString) Parse(text string) error {
	if len(text) > s.maxLen() {
		return fmt.Errorf("%w: %q exceeds %d bytes", ErrParse, text, s.maxLen())
	}
	s.data = []byte(text)
	s.set = true
	return nil
}

func (s *PString) Pretty() string { return strconv.Quote(string(s.data)) }

// String returns the raw string content without quoting.
func (s *PString) String() string { return string(s.data) }

// ZString is a zero-terminated string.
type ZString struct {
	data []byte
	set  bool
}

func NewZString(text string) *ZString {
	return &ZString{data: []byte(text), set: true}
}

func (s *ZString) Bytes() int { return len(s.data) + 1 }
func (s *ZString) IsSet() bool { return s.set }
func (s *ZString) TypeName() string { return "zstring" }

func (s *ZString) Read(r io.Reader) error {
	var data []byte
	var buf [1]byte
	for {
		if err := readFull(r, buf[:]); err != nil {
			return err
		}
		if buf[0] == 0 {
			break
		}
		data = append(data, buf[0])
	}
	s.data = data
	s.set = true
	return nil
}

func (s *ZString) Write(w io.Writer) error {
	if _, err := w.Write(s.data); err != nil {
		return err
	}
	_, err := w.Write([]byte{0})
	return err
}

func (s *ZString) Parse(text string) error {
	if bytes.IndexByte([]byte(text), 0) >= 0 {
		return fmt.Errorf("%w: zero byte in zstring", ErrParse)
	}
	s.data = []byte(text)
	s.set = true
	return nil
}

func (s *ZString) Pretty() string { return strconv.Quote(string(s.data)) }

// String returns the raw string content without quoting.
func (s *ZString) String() string { return string(s.data) }
