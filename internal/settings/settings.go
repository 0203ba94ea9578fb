package settings

import (
	"bytes"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/viro24/bcm2cfg/internal/nonvol"
	"github.com/viro24/bcm2cfg/internal/profile"
)

// MaxInputSize caps the accepted dump size. Observed nonvol partitions stay
// below 1 MiB; anything past this is not a settings dump.
const MaxInputSize = 8 << 20

// Hint is the caller-supplied container type.
type Hint int

const (
	HintAuto Hint = iota
	HintPerm
	HintDyn
	HintGwSettings
)

// ParseHint maps the CLI type argument to a Hint.
func ParseHint(s string) (Hint, error) {
	switch s {
	case "auto", "":
		return HintAuto, nil
	case "perm":
		return HintPerm, nil
	case "dyn":
		return HintDyn, nil
	case "gwsettings":
		return HintGwSettings, nil
	default:
		return HintAuto, fmt.Errorf("invalid container type %q", s)
	}
}

// Options configure a Read or a container built for Write.
type Options struct {
	// Profile forces a device profile instead of auto-detection.
	Profile *profile.Profile
	// Key forces an AES-256 key for encrypted gwsettings files.
	Key []byte
	// Registry supplies the profiles tried during auto-detection.
	// Defaults to the built-in registry.
	Registry *profile.Registry
	// Strict makes group payload parse failures fatal.
	Strict bool
	// Logger receives codec diagnostics; nil means silent.
	Logger *zap.Logger
}

func (o *Options) registry() *profile.Registry {
	if o.Registry != nil {
		return o.Registry
	}
	return profile.Builtin()
}

func (o *Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

// Container is a decoded settings file.
type Container interface {
	// Type names the container family: "permnv", "dynnv" or "gwsettings".
	Type() string
	// Groups returns the decoded group list.
	Groups() *nonvol.GroupList
	// Find resolves a dotted "group.field..." path.
	Find(path string) (nonvol.Val, error)
	// Write re-encodes the container in one pass.
	Write(w io.Writer) error
	// HeaderString describes the container framing for display.
	HeaderString() string
}

var allFF16 = bytes.Repeat([]byte{0xff}, 16)

// Read inspects the first 16 bytes of r to pick a container codec, then
// decodes the rest. The input is consumed to completion.
//
// A permnv/dynnv dump opens with 16 bytes of 0xFF; it is decoded as such
// only when the hint says perm or dyn. Without a hint those bytes are
// indistinguishable from a gwsettings checksum, so the dispatcher warns and
// proceeds as gwsettings (which will fail its integrity checks).
func Read(r io.Reader, hint Hint, opts Options) (Container, error) {
	start := make([]byte, 16)
	if _, err := io.ReadFull(r, start); err != nil {
		return nil, fmt.Errorf("%w: file header: %v", ErrShortRead, err)
	}

	if bytes.Equal(start, allFF16) {
		switch hint {
		case HintPerm, HintDyn:
			c := &PermDyn{Dyn: hint == HintDyn, opts: opts}
			if err := c.read(r); err != nil {
				return nil, err
			}
			return c, nil
		case HintAuto:
			opts.logger().Warn("file looks like a permnv/dynnv file, but no type was specified")
		}
	}

	// for a gwsettings file, start already contains the checksum
	c := &GwSettings{opts: opts}
	copy(c.Checksum[:], start)
	if err := c.read(r); err != nil {
		return nil, err
	}
	return c, nil
}

// readBody consumes the rest of a container, enforcing the size cap.
func readBody(r io.Reader) ([]byte, error) {
	buf, err := io.ReadAll(io.LimitReader(r, MaxInputSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading container body: %w", err)
	}
	if len(buf) > MaxInputSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, MaxInputSize)
	}
	return buf, nil
}
