// Package nonvol implements the typed value model and group codec for
// Broadcom nonvolatile settings.
//
// A settings container carries a sequence of length-prefixed, magic-tagged
// groups. Each group's payload is a tree of typed values (nv_vals): integers,
// strings, addresses, arrays, bitmasks, enumerations, nested compounds, or
// opaque bytes when no schema is known for the group's magic.
//
// # Group record format
//
// Groups are framed as:
//   - Size: 2 bytes, big-endian, total group length including this field
//   - Magic: 4 bytes, identifies the payload schema
//   - Version: 2 bytes, big-endian
//   - Payload: Size - 8 bytes
//
// A magic of 0xFFFFFFFF terminates the group stream.
//
// # Value contract
//
// Every value reads and writes exactly Bytes() bytes. For compounds, Bytes()
// equals the sum over the children that are present, so a group that was
// decoded from a well-formed container re-encodes byte-identically.
package nonvol
