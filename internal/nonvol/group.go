package nonvol

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// GroupType identifies which container family a group stream belongs to.
// The same magic may select different schemas in permnv, dynnv and
// gwsettings streams.
type GroupType int

const (
	TypePerm GroupType = iota
	TypeDyn
	TypeCfg
)

func (t GroupType) String() string {
	switch t {
	case TypePerm:
		return "perm"
	case TypeDyn:
		return "dyn"
	case TypeCfg:
		return "cfg"
	default:
		return fmt.Sprintf("GroupType(%d)", int(t))
	}
}

// groupHeaderLen is the framing overhead of one group record:
// 2 bytes size, 4 bytes magic, 2 bytes version.
const groupHeaderLen = 8

// terminatorMagic ends a group stream.
var terminatorMagic = [4]byte{0xff, 0xff, 0xff, 0xff}

// Group is one length-prefixed, magic-tagged record of a settings container.
type Group struct {
	magic   [4]byte
	version uint16
	size    uint16
	name    string

	// vals is the decoded payload for groups with a known schema; nil for
	// opaque groups. tail holds payload bytes past what the schema
	// consumed (or the entire payload when vals is nil) so that Write
	// reproduces the input exactly.
	vals *Compound
	tail []byte
}

// NewGroup builds a group for encoding. The size field is computed from the
// payload.
func NewGroup(magic [4]byte, version uint16, vals *Compound) *Group {
	g := &Group{magic: magic, version: version, vals: vals}
	g.size = uint16(groupHeaderLen + g.payloadBytes())
	g.name = defaultGroupName(magic)
	return g
}

func (g *Group) Magic() [4]byte { return g.magic }
func (g *Group) Version() uint16 { return g.version }
func (g *Group) Size() uint16 { return g.size }
func (g *Group) Name() string { return g.name }
func (g *Group) Vals() *Compound { return g.vals }

// MagicString renders the magic as hex.
func (g *Group) MagicString() string {
	return hex.EncodeToString(g.magic[:])
}

// Bytes returns the total record length. For a group decoded from a stream
// this equals the declared size; after a value mutation it tracks the new
// payload length.
func (g *Group) Bytes() int { return groupHeaderLen + g.payloadBytes() }

func (g *Group) payloadBytes() int {
	n := len(g.tail)
	if g.vals != nil {
		n += g.vals.Bytes()
	}
	return n
}

// Find resolves a dotted path within the group's payload.
func (g *Group) Find(path string) (Val, error) {
	if g.vals == nil {
		return nil, fmt.Errorf("%w: group %s has no schema", ErrNotFound, g.name)
	}
	return g.vals.Find(path)
}

// Write emits the full group record: size, magic, version, payload.
func (g *Group) Write(w io.Writer) error {
	var hdr [groupHeaderLen]byte
	binary.BigEndian.PutUint16(hdr[0:2], uint16(g.Bytes()))
	copy(hdr[2:6], g.magic[:])
	binary.BigEndian.PutUint16(hdr[6:8], g.version)
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}

	if g.vals != nil {
		if err := g.vals.Write(w); err != nil {
			return fmt.Errorf("group %s: %w", g.name, err)
		}
	}
	if len(g.tail) > 0 {
		if _, err := w.Write(g.tail); err != nil {
			return err
		}
	}
	return nil
}

// Pretty renders the decoded payload, or a hex dump for opaque groups.
func (g *Group) Pretty() string {
	if g.vals == nil {
		return hex.EncodeToString(g.tail)
	}
	s := g.vals.Pretty()
	if len(g.tail) > 0 {
		s += fmt.Sprintf("\n(+%d unparsed bytes: %s)", len(g.tail), hex.EncodeToString(g.tail))
	}
	return s
}

// defaultGroupName derives a display name from the magic: the ASCII form
// when printable, a hex form otherwise.
func defaultGroupName(magic [4]byte) string {
	printable := true
	for _, b := range magic {
		if b < 0x21 || b > 0x7e {
			printable = false
			break
		}
	}
	if printable {
		return string(magic[:])
	}
	return "grp_" + hex.EncodeToString(magic[:])
}

// GroupList is an ordered, name-unique sequence of groups.
type GroupList struct {
	groups []*Group
	// renames counts how many groups have been renamed; the suffix is a
	// single counter over the whole list, so the first duplicate of any
	// name becomes _2, the next _3, and so on.
	renames int
}

// Add appends a group, renaming it when its name is already taken.
func (l *GroupList) Add(g *Group, logger *zap.Logger) {
	if l.FindGroup(g.name) != nil {
		l.renames++
		renamed := fmt.Sprintf("%s_%d", g.name, l.renames+1)
		if logger != nil {
			logger.Debug("redefinition of group renamed",
				zap.String("name", g.name),
				zap.String("renamed", renamed))
		}
		g.name = renamed
	}
	l.groups = append(l.groups, g)
}

// Groups returns the groups in stream order.
func (l *GroupList) Groups() []*Group { return l.groups }

// FindGroup returns the group with the given name, or nil.
func (l *GroupList) FindGroup(name string) *Group {
	for _, g := range l.groups {
		if g.name == name {
			return g
		}
	}
	return nil
}

// Find resolves a dotted path "group.field..." across the list.
func (l *GroupList) Find(path string) (Val, error) {
	head, rest, nested := cutPath(path)
	g := l.FindGroup(head)
	if g == nil {
		return nil, fmt.Errorf("%w: group %q", ErrNotFound, head)
	}
	if !nested {
		if g.vals != nil {
			return g.vals, nil
		}
		return nil, fmt.Errorf("%w: group %q has no schema", ErrNotFound, head)
	}
	return g.Find(rest)
}

func cutPath(path string) (head, rest string, nested bool) {
	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			return path[:i], path[i+1:], true
		}
	}
	return path, "", false
}

// Bytes returns the summed size of all groups.
func (l *GroupList) Bytes() int {
	n := 0
	for _, g := range l.groups {
		n += g.Bytes()
	}
	return n
}

// Write serializes all groups in order.
func (l *GroupList) Write(w io.Writer) error {
	for _, g := range l.groups {
		if err := g.Write(w); err != nil {
			return err
		}
	}
	return nil
}

// ReadOptions control the group-stream reader.
type ReadOptions struct {
	// Strict makes payload parse failures fatal. The default (permissive)
	// behavior truncates the stream at the failing group instead, so that
	// damaged dumps remain inspectable.
	Strict bool
	// Logger receives parse diagnostics; nil means silent.
	Logger *zap.Logger
}

// ReadGroups parses a group stream from data, which must be sliced to the
// container's declared data length. It returns the parsed groups and any
// trailing bytes that were not consumed as groups (a terminator record,
// filler, or - in permissive mode - a group that failed to parse). Writing
// the groups followed by the trailer reproduces data byte-for-byte.
func ReadGroups(data []byte, typ GroupType, opts ReadOptions) (*GroupList, []byte, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	list := &GroupList{}
	br := bytes.NewReader(data)

	for br.Len() > 0 {
		start := len(data) - br.Len()

		g, err := readGroup(br, typ, logger)
		if err == errEndOfStream {
			return list, data[start:], nil
		}
		if err != nil {
			if opts.Strict {
				return nil, nil, fmt.Errorf("%w: at offset %d: %v", ErrGroupParse, start, err)
			}
			logger.Warn("group parse failed, truncating stream",
				zap.Int("offset", start),
				zap.Error(err))
			return list, data[start:], nil
		}

		list.Add(g, logger)
	}

	return list, nil, nil
}

// errEndOfStream reports a terminator record.
var errEndOfStream = fmt.Errorf("end of group stream")

// readGroup reads one group record. The reader must be positioned at the
// size field.
func readGroup(br *bytes.Reader, typ GroupType, logger *zap.Logger) (*Group, error) {
	var hdr [groupHeaderLen]byte

	if err := readFull(br, hdr[0:2]); err != nil {
		return nil, err
	}
	size := binary.BigEndian.Uint16(hdr[0:2])

	if err := readFull(br, hdr[2:6]); err != nil {
		return nil, err
	}
	var magic [4]byte
	copy(magic[:], hdr[2:6])

	if magic == terminatorMagic {
		return nil, errEndOfStream
	}

	if size < groupHeaderLen {
		return nil, fmt.Errorf("group %s: declared size %d below header length", hex.EncodeToString(magic[:]), size)
	}

	if err := readFull(br, hdr[6:8]); err != nil {
		return nil, err
	}
	version := binary.BigEndian.Uint16(hdr[6:8])

	payload := make([]byte, int(size)-groupHeaderLen)
	if err := readFull(br, payload); err != nil {
		return nil, fmt.Errorf("group %s: payload: %w", hex.EncodeToString(magic[:]), err)
	}

	g := &Group{magic: magic, version: version, size: size}

	schema := findSchema(magic, typ)
	if schema == nil {
		g.name = defaultGroupName(magic)
		g.tail = payload
		logger.Debug("unknown group magic, keeping payload opaque",
			zap.String("magic", g.MagicString()),
			zap.Int("payload", len(payload)))
		return g, nil
	}

	g.name = schema.Name
	vals := schema.Build(version)

	pr := bytes.NewReader(payload)
	if err := vals.Read(pr); err != nil {
		return nil, fmt.Errorf("group %s (%s): %w", schema.Name, g.MagicString(), err)
	}
	g.vals = vals
	if pr.Len() > 0 {
		g.tail = payload[len(payload)-pr.Len():]
	}

	return g, nil
}
