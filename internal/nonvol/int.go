package nonvol

import (
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// U8 is an unsigned 8-bit integer.
type U8 struct {
	val uint8
	set bool
}

// NewU8 returns a U8 holding v.
func NewU8(v uint8) *U8 { return &U8{val: v, set: true} }

func (u *U8) Num() uint8 { return u.val }
func (u *U8) Bytes() int { return 1 }
func (u *U8) IsSet() bool { return u.set }
func (u *U8) TypeName() string { return "u8" }

func (u *U8) Read(r io.Reader) error {
	var buf [1]byte
	if err := readFull(r, buf[:]); err != nil {
		return err
	}
	u.val = buf[0]
	u.set = true
	return nil
}

func (u *U8) Write(w io.Writer) error {
	_, err := w.Write([]byte{u.val})
	return err
}

func (u *U8) Parse(s string) error {
	n, err := parseUint(s, 8)
	if err != nil {
		return err
	}
	u.val = uint8(n)
	u.set = true
	return nil
}

func (u *U8) Pretty() string { return strconv.FormatUint(uint64(u.val), 10) }

// U16 is an unsigned 16-bit integer, big-endian on the wire.
type U16 struct {
	val uint16
	set bool
}

func NewU16(v uint16) *U16 { return &U16{val: v, set: true} }

func (u *U16) Num() uint16 { return u.val }
func (u *U16) Bytes() int { return 2 }
func (u *U16) IsSet() bool { return u.set }
func (u *U16) TypeName() string { return "u16" }

func (u *U16) Read(r io.Reader) error {
	var buf [2]byte
	if err := readFull(r, buf[:]); err != nil {
		return err
	}
	u.val = binary.BigEndian.Uint16(buf[:])
	u.set = true
	return nil
}

func (u *U16) Write(w io.Writer) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], u.val)
	_, err := w.Write(buf[:])
	return err
}

func (u *U16) Parse(s string) error {
	n, err := parseUint(s, 16)
	if err != nil {
		return err
	}
	u.val = uint16(n)
	u.set = true
	return nil
}

func (u *U16) Pretty() string { return strconv.FormatUint(uint64(u.val), 10) }

// U32 is an unsigned 32-bit integer. LittleEndian selects the byte order on
// the wire; container headers and almost all group fields are big-endian.
type U32 struct {
	LittleEndian bool

	val uint32
	set bool
}

func NewU32(v uint32) *U32 { return &U32{val: v, set: true} }

func (u *U32) Num() uint32 { return u.val }
func (u *U32) Bytes() int { return 4 }
func (u *U32) IsSet() bool { return u.set }
func (u *U32) TypeName() string { return "u32" }

func (u *U32) order() binary.ByteOrder {
	if u.LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func (u *U32) Read(r io.Reader) error {
	var buf [4]byte
	if err := readFull(r, buf[:]); err != nil {
		return err
	}
	u.val = u.order().Uint32(buf[:])
	u.set = true
	return nil
}

func (u *U32) Write(w io.Writer) error {
	var buf [4]byte
	u.order().PutUint32(buf[:], u.val)
	_, err := w.Write(buf[:])
	return err
}

func (u *U32) Parse(s string) error {
	n, err := parseUint(s, 32)
	if err != nil {
		return err
	}
	u.val = uint32(n)
	u.set = true
	return nil
}

func (u *U32) Pretty() string { return strconv.FormatUint(uint64(u.val), 10) }

// I8 is a signed 8-bit integer.
type I8 struct {
	val int8
	set bool
}

func NewI8(v int8) *I8 { return &I8{val: v, set: true} }

func (i *I8) Num() int8 { return i.val }
func (i *I8) Bytes() int { return 1 }
func (i *I8) IsSet() bool { return i.set }
func (i *I8) TypeName() string { return "i8" }

func (i *I8) Read(r io.Reader) error {
	var buf [1]byte
	if err := readFull(r, buf[:]); err != nil {
		return err
	}
	i.val = int8(buf[0])
	i.set = true
	return nil
}

func (i *I8) Write(w io.Writer) error {
	_, err := w.Write([]byte{byte(i.val)})
	return err
}

func (i *I8) Parse(s string) error {
	n, err := parseInt(s, 8)
	if err != nil {
		return err
	}
	i.val = int8(n)
	i.set = true
	return nil
}

func (i *I8) Pretty() string { return strconv.FormatInt(int64(i.val), 10) }

// I16 is a signed 16-bit integer, big-endian on the wire.
type I16 struct {
	val int16
	set bool
}

func NewI16(v int16) *I16 { return &I16{val: v, set: true} }

func (i *I16) Num() int16 { return i.val }
func (i *I16) Bytes() int { return 2 }
func (i *I16) IsSet() bool { return i.set }
func (i *I16) TypeName() string { return "i16" }

func (i *I16) Read(r io.Reader) error {
	var buf [2]byte
	if err := readFull(r, buf[:]); err != nil {
		return err
	}
	i.val = int16(binary.BigEndian.Uint16(buf[:]))
	i.set = true
	return nil
}

func (i *I16) Write(w io.Writer) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], uint16(i.val))
	_, err := w.Write(buf[:])
	return err
}

func (i *I16) Parse(s string) error {
	n, err := parseInt(s, 16)
	if err != nil {
		return err
	}
	i.val = int16(n)
	i.set = true
	return nil
}

func (i *I16) Pretty() string { return strconv.FormatInt(int64(i.val), 10) }

// I32 is a signed 32-bit integer, big-endian on the wire.
type I32 struct {
	val int32
	set bool
}

func NewI32(v int32) *I32 { return &I32{val: v, set: true} }

func (i *I32) Num() int32 { return i.val }
func (i *I32) Bytes() int { return 4 }
func (i *I32) IsSet() bool { return i.set }
func (i *I32) TypeName() string { return "i32" }

func (i *I32) Read(r io.Reader) error {
	var buf [4]byte
	if err := readFull(r, buf[:]); err != nil {
		return err
	}
	i.val = int32(binary.BigEndian.Uint32(buf[:]))
	i.set = true
	return nil
}

func (i *I32) Write(w io.Writer) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(i.val))
	_, err := w.Write(buf[:])
	return err
}

func (i *I32) Parse(s string) error {
	n, err := parseInt(s, 32)
	if err != nil {
		return err
	}
	i.val = int32(n)
	i.set = true
	return nil
}

func (i *I32) Pretty() string { return strconv.FormatInt(int64(i.val), 10) }

// Version is a two-byte version number rendered as "major.minor".
type Version struct {
	major uint8
	minor uint8
	set   bool
}

func NewVersion(major, minor uint8) *Version {
	return &Version{major: major, minor: minor, set: true}
}

func (v *Version) Major() uint8 { return v.major }
func (v *Version) Minor() uint8 { return v.minor }
func (v *Version) Bytes() int { return 2 }
func (v *Version) IsSet() bool { return v.set }
func (v *Version) TypeName() string { return "version" }

func (v *Version) Read(r io.Reader) error {
	var buf [2]byte
	if err := readFull(r, buf[:]); err != nil {
		return err
	}
	v.major = buf[0]
	v.minor = buf[1]
	v.set = true
	return nil
}

func (v *Version) Write(w io.Writer) error {
	_, err := w.Write([]byte{v.major, v.minor})
	return err
}

func (v *Version) Parse(s string) error {
	maj, min, ok := strings.Cut(s, ".")
	if !ok {
		return fmt.Errorf("%w: version must be major.minor, got %q", ErrParse, s)
	}
	m, err := parseUint(maj, 8)
	if err != nil {
		return err
	}
	n, err := parseUint(min, 8)
	if err != nil {
		return err
	}
	v.major = uint8(m)
	v.minor = uint8(n)
	v.set = true
	return nil
}

func (v *Version) Pretty() string { return fmt.Sprintf("%d.%d", v.major, v.minor) }
