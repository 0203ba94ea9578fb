package settings

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/viro24/bcm2cfg/internal/checksum"
	"github.com/viro24/bcm2cfg/internal/nonvol"
	"github.com/viro24/bcm2cfg/internal/profile"
)

// Magic is the cleartext identity of a gwsettings file, located right after
// the 16-byte checksum. Its length is load-bearing: magic checks compare
// exactly these 74 bytes.
const Magic = "6u9E9eWF0bt9Y8Rw690Le4669JYe4d-056T9p4ijm4EA6u9ee659jn9E-54e4j6rPj069K-670"

// gwHeaderLen is the cleartext header: magic, version (2), size (4).
const gwHeaderLen = len(Magic) + 6

// GwSettings is the MD5-checksummed, optionally AES-256-ECB-encrypted
// settings container.
type GwSettings struct {
	// Checksum is the stored 16-byte keyed MD5.
	Checksum [16]byte
	// Version is the stored format version.
	Version uint16
	// Size is the stored size field; it covers the bytes after the
	// checksum, excluding any 16-byte padding trailer.
	Size uint32

	// Profile is the device profile, forced or auto-detected.
	Profile *profile.Profile
	// AutoProfile records that Profile came from checksum trials rather
	// than from the caller.
	AutoProfile bool
	// Key is the AES-256 key that decrypted the file, when any.
	Key []byte

	// Integrity flags. All advisory; a container with a bad checksum or
	// size still parses as far as the bytes allow.
	ChecksumValid bool
	MagicValid    bool
	SizeValid     bool
	// Padded records a 16-byte 0x00 trailer past the declared size.
	Padded bool
	// Encrypted marks the terminal state of an encrypted file that no
	// key could open; no groups are available then.
	Encrypted bool

	groups  *nonvol.GroupList
	trailer []byte
	opts    Options
}

func (c *GwSettings) Type() string { return "gwsettings" }

func (c *GwSettings) Groups() *nonvol.GroupList { return c.groups }

func (c *GwSettings) Find(path string) (nonvol.Val, error) {
	if c.groups == nil {
		return nil, fmt.Errorf("container is encrypted and no key was found")
	}
	return c.groups.Find(path)
}

// read decodes everything after the 16 checksum bytes the dispatcher
// already consumed.
func (c *GwSettings) read(r io.Reader) error {
	logger := c.opts.logger()

	buf, err := readBody(r)
	if err != nil {
		return err
	}

	c.validateChecksumAndDetectProfile(buf)

	c.MagicValid = len(buf) >= len(Magic) && string(buf[:len(Magic)]) == Magic

	if !c.MagicValid {
		decrypted, ok := c.decryptAndDetectKey(buf)
		if !ok {
			logger.Warn("no key produced the gwsettings magic, giving up",
				zap.Int("size", len(buf)))
			c.Encrypted = true
			return nil
		}
		buf = decrypted
		logger.Debug("decrypted container", zap.String("key", hex.EncodeToString(c.Key)))
	}

	if len(buf) < gwHeaderLen {
		return fmt.Errorf("%w: gwsettings header", ErrShortRead)
	}
	c.Version = binary.BigEndian.Uint16(buf[len(Magic) : len(Magic)+2])
	c.Size = binary.BigEndian.Uint32(buf[len(Magic)+2 : gwHeaderLen])

	c.SizeValid = int(c.Size) == len(buf)
	if !c.SizeValid && int(c.Size)+16 == len(buf) {
		c.Padded = true
		c.SizeValid = true
	}
	if !c.SizeValid {
		logger.Warn("size field does not match file size",
			zap.Uint32("size", c.Size),
			zap.Int("actual", len(buf)))
	}

	dataLen := int(c.Size) - gwHeaderLen
	if int(c.Size) < gwHeaderLen || dataLen > len(buf)-gwHeaderLen {
		dataLen = len(buf) - gwHeaderLen
	}

	groups, trailer, err := nonvol.ReadGroups(buf[gwHeaderLen:gwHeaderLen+dataLen], nonvol.TypeCfg,
		nonvol.ReadOptions{Strict: c.opts.Strict, Logger: logger})
	if err != nil {
		return err
	}
	c.groups = groups
	c.trailer = trailer
	return nil
}

// validateChecksumAndDetectProfile compares the stored MD5 against each
// candidate profile's keyed digest. With a forced profile only that one is
// tried; otherwise the registry is walked in declaration order and the
// first match wins.
func (c *GwSettings) validateChecksumAndDetectProfile(buf []byte) {
	if c.opts.Profile != nil {
		c.Profile = c.opts.Profile
		c.ChecksumValid = checksum.MD5Keyed(buf, c.Profile.MD5Key) == c.Checksum
		return
	}

	for _, p := range c.opts.registry().List() {
		if checksum.MD5Keyed(buf, p.MD5Key) == c.Checksum {
			c.Profile = p
			c.AutoProfile = true
			c.ChecksumValid = true
			c.opts.logger().Debug("profile auto-detected", zap.String("profile", p.Name))
			return
		}
	}
}

// decryptAndDetectKey trials AES keys until one yields the magic: the
// caller-supplied key, then the known profile's default keys, then every
// profile's default keys in registry order.
func (c *GwSettings) decryptAndDetectKey(buf []byte) ([]byte, bool) {
	if len(c.opts.Key) > 0 {
		return c.tryKey(buf, c.opts.Key)
	}
	if c.Profile != nil {
		return c.tryProfileKeys(buf, c.Profile)
	}
	for _, p := range c.opts.registry().List() {
		if decrypted, ok := c.tryProfileKeys(buf, p); ok {
			return decrypted, true
		}
	}
	return nil, false
}

func (c *GwSettings) tryProfileKeys(buf []byte, p *profile.Profile) ([]byte, bool) {
	for _, key := range p.DefaultKeys {
		if decrypted, ok := c.tryKey(buf, key); ok {
			return decrypted, true
		}
	}
	return nil, false
}

func (c *GwSettings) tryKey(buf, key []byte) ([]byte, bool) {
	decrypted, err := cryptECB(buf, key, true, false)
	if err != nil {
		c.opts.logger().Warn("skipping unusable key", zap.Error(err))
		return nil, false
	}
	if len(decrypted) < len(Magic) || string(decrypted[:len(Magic)]) != Magic {
		return nil, false
	}
	c.Key = key
	c.MagicValid = true
	return decrypted, true
}

// Write re-encodes the container. The size field is written as header
// length plus body length, excluding the 16-byte checksum prefix; devices
// reject any other accounting.
func (c *GwSettings) Write(w io.Writer) error {
	if c.Profile == nil {
		return ErrMissingProfile
	}
	if c.groups == nil {
		return fmt.Errorf("container has no decoded groups")
	}

	var body bytes.Buffer
	if err := c.groups.Write(&body); err != nil {
		return err
	}
	body.Write(c.trailer)

	data := make([]byte, 0, gwHeaderLen+body.Len())
	data = append(data, Magic...)
	data = binary.BigEndian.AppendUint16(data, c.Version)
	data = binary.BigEndian.AppendUint32(data, uint32(gwHeaderLen+body.Len()))
	data = append(data, body.Bytes()...)

	if len(c.Key) > 0 {
		encrypted, err := cryptECB(data, c.Key, false, c.Padded)
		if err != nil {
			return err
		}
		data = encrypted
	}

	sum := checksum.MD5Keyed(data, c.Profile.MD5Key)
	if _, err := w.Write(sum[:]); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}

	if c.Padded {
		if _, err := w.Write(make([]byte, 16)); err != nil {
			return err
		}
	}
	return nil
}

func (c *GwSettings) HeaderString() string {
	name := ""
	if c.Profile != nil {
		name = c.Profile.Name
	}
	key := ""
	if len(c.Key) > 0 {
		key = hex.EncodeToString(c.Key)
	}
	return headerToString(c.Type(), hex.EncodeToString(c.Checksum[:]), c.ChecksumValid,
		c.Size, c.SizeValid, key, c.Encrypted || len(c.Key) > 0, name, c.AutoProfile)
}
