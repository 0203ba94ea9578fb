// Package profile holds the registry of known device profiles.
//
// A profile is an immutable record of device-specific constants. The settings
// codec consumes only the MD5 checksum key, the default AES keys, and the
// optional password key-derivation function; the remaining fields (baud rate,
// bootloader signatures) are carried for the dump/flash tooling.
package profile

import (
	"encoding/hex"
	"fmt"
)

// Profile describes a single device model. Instances are shared read-only
// across the codec; never mutate a profile after registration.
type Profile struct {
	// Name is the short identifier used on the command line (e.g. "tc7200").
	Name string
	// Pretty is the human-readable device name.
	Pretty string

	// Baudrate and the boot/PS signatures are consumed by the serial
	// dumper, not by the settings codec.
	Baudrate uint32
	PSSig    uint16
	BLSig    uint16

	// MD5Key is appended to the file contents before hashing the
	// gwsettings checksum. May be empty.
	MD5Key []byte
	// DefaultKeys lists candidate AES-256 keys for encrypted gwsettings
	// files, tried in order.
	DefaultKeys [][]byte
	// KeyFromPassword derives an AES-256 key from a user password.
	// Nil when the device has no password scheme.
	KeyFromPassword func(password string) []byte
}

// mustHex decodes a hex literal in the built-in profile table.
func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(fmt.Sprintf("bad hex literal %q: %v", s, err))
	}
	return b
}

// keyFromPasswordTC7200 builds the TC7200 config key: bytes 0x00..0x1f,
// with the password (up to 32 bytes) overlaid at the start.
func keyFromPasswordTC7200(password string) []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}

	pw := []byte(password)
	if len(pw) > 32 {
		pw = pw[:32]
	}
	copy(key, pw)

	return key
}

// builtins is the registry of known devices, in declaration order. Profile
// and key auto-detection iterate this slice front to back, and the first
// match wins, so the order is part of the observable behavior.
var builtins = []*Profile{
	{
		Name:     "generic",
		Pretty:   "Generic Profile",
		Baudrate: 115200,
	},
	{
		Name:   "cg3000",
		Pretty: "Netgear CG3000",
		PSSig:  0xa0f7,
		MD5Key: mustHex("3250736c633b752865676d64302d2778"),
	},
	{
		Name:     "twg850",
		Pretty:   "Thomson TWG850-4",
		Baudrate: 115200,
		PSSig:    0xa815,
		BLSig:    0x3345,
		MD5Key:   mustHex("544d4d5f5457473835302d3400000000"),
	},
	{
		Name:   "tcw770",
		Pretty: "Thomson TCW770",
		MD5Key: mustHex("544d4d5f544357373730000000000000"),
	},
	{
		Name:     "twg870",
		Pretty:   "Thomson TWG870",
		Baudrate: 115200,
		PSSig:    0xa81b,
		BLSig:    0x3380,
		MD5Key:   mustHex("544d4d5f545747383730000000000000"),
		DefaultKeys: [][]byte{
			mustHex("0001020304050607080910111213141516171819202122232425262728293031"),
		},
	},
	{
		Name:     "tc7200",
		Pretty:   "Technicolor TC7200",
		Baudrate: 115200,
		PSSig:    0xa825,
		BLSig:    0x3386,
		MD5Key:   mustHex("544d4d5f544337323030000000000000"),
		DefaultKeys: [][]byte{
			mustHex("000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"),
		},
		KeyFromPassword: keyFromPasswordTC7200,
	},
}
