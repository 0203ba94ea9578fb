package settings

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/viro24/bcm2cfg/internal/checksum"
	"github.com/viro24/bcm2cfg/internal/nonvol"
)

// permdyn framing constants. A file opens with 0xCA bytes of 0xFF fill; the
// dispatcher consumes the first 16 before handing over.
const (
	permdynMagicLen  = 0xca
	permdynMagicRest = 0xba
	permdynHeaderLen = 8 // size and CRC fields
)

// PermDyn is a permnv or dynnv container: 0xFF fill, a big-endian size and
// CRC-32, then a cleartext group stream. Never encrypted, never padded.
type PermDyn struct {
	// Dyn distinguishes dynnv from permnv; it selects the group schema
	// namespace.
	Dyn bool
	// Size is the stored size field: 8 plus the group stream length.
	Size uint32
	// Checksum is the stored CRC-32.
	Checksum uint32
	// ChecksumValid records whether the stored CRC matched. Advisory:
	// parsing proceeds either way.
	ChecksumValid bool

	groups  *nonvol.GroupList
	trailer []byte
	opts    Options
}

func (c *PermDyn) Type() string {
	if c.Dyn {
		return "dynnv"
	}
	return "permnv"
}

func (c *PermDyn) groupType() nonvol.GroupType {
	if c.Dyn {
		return nonvol.TypeDyn
	}
	return nonvol.TypePerm
}

func (c *PermDyn) Groups() *nonvol.GroupList { return c.groups }

func (c *PermDyn) Find(path string) (nonvol.Val, error) {
	return c.groups.Find(path)
}

// read decodes everything after the 16 leading 0xFF bytes the dispatcher
// already consumed.
func (c *PermDyn) read(r io.Reader) error {
	logger := c.opts.logger()

	magic := make([]byte, permdynMagicRest)
	if _, err := io.ReadFull(r, magic); err != nil {
		return fmt.Errorf("%w: permdyn magic: %v", ErrShortRead, err)
	}
	for i, b := range magic {
		if b != 0xff {
			return fmt.Errorf("%w: non-0xff byte at offset %d of magic fill", ErrBadMagic, 16+i)
		}
	}

	var hdr [permdynHeaderLen]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return fmt.Errorf("%w: permdyn header: %v", ErrShortRead, err)
	}
	c.Size = binary.BigEndian.Uint32(hdr[0:4])
	c.Checksum = binary.BigEndian.Uint32(hdr[4:8])

	rest, err := readBody(r)
	if err != nil {
		return err
	}

	// the stored CRC covers the first size+16 bytes of the remainder
	crcLen := int(c.Size) + 16
	if crcLen > len(rest) {
		crcLen = len(rest)
	}
	crc := checksum.CRC32(rest[:crcLen])
	c.ChecksumValid = crc == c.Checksum
	if c.ChecksumValid {
		logger.Debug("checksum ok", zap.Uint32("crc", crc))
	} else {
		logger.Warn("checksum mismatch",
			zap.Uint32("computed", crc),
			zap.Uint32("stored", c.Checksum))
	}

	dataLen := int(c.Size) - permdynHeaderLen
	if c.Size < permdynHeaderLen || dataLen > len(rest) {
		logger.Warn("implausible size field, using actual body length",
			zap.Uint32("size", c.Size),
			zap.Int("body", len(rest)))
		dataLen = len(rest)
	}

	groups, trailer, err := nonvol.ReadGroups(rest[:dataLen], c.groupType(), nonvol.ReadOptions{
		Strict: c.opts.Strict,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	c.groups = groups
	c.trailer = trailer
	return nil
}

// Write emits the full container: 0xCA bytes of 0xFF, size, CRC-32, body.
func (c *PermDyn) Write(w io.Writer) error {
	var body bytes.Buffer
	if err := c.groups.Write(&body); err != nil {
		return err
	}
	body.Write(c.trailer)
	buf := body.Bytes()

	if _, err := w.Write(bytes.Repeat([]byte{0xff}, permdynMagicLen)); err != nil {
		return err
	}

	var hdr [permdynHeaderLen]byte
	binary.BigEndian.PutUint32(hdr[0:4], uint32(permdynHeaderLen+len(buf)))
	binary.BigEndian.PutUint32(hdr[4:8], checksum.CRC32(buf))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}

	_, err := w.Write(buf)
	return err
}

func (c *PermDyn) HeaderString() string {
	return headerToString(c.Type(), fmt.Sprintf("%08x", c.Checksum), c.ChecksumValid,
		c.Size, true, "", false, "", false)
}
