package nonvol

import (
	"fmt"
	"io"
	"net"
	"net/netip"
)

// IPv4 is a four-byte IP address.
type IPv4 struct {
	addr netip.Addr
	set  bool
}

func NewIPv4(addr netip.Addr) *IPv4 { return &IPv4{addr: addr, set: true} }

func (v *IPv4) Addr() netip.Addr { return v.addr }
func (v *IPv4) Bytes() int { return 4 }
func (v *IPv4) IsSet() bool { return v.set }
func (v *IPv4) TypeName() string { return "ip4" }

func (v *IPv4) Read(r io.Reader) error {
	var buf [4]byte
	if err := readFull(r, buf[:]); err != nil {
		return err
	}
	v.addr = netip.AddrFrom4(buf)
	v.set = true
	return nil
}

func (v *IPv4) Write(w io.Writer) error {
	b := v.addr.As4()
	_, err := w.Write(b[:])
	return err
}

func (v *IPv4) Parse(s string) error {
	addr, err := netip.ParseAddr(s)
	if err != nil || !addr.Is4() {
		return fmt.Errorf("%w: %q is not an IPv4 address", ErrParse, s)
	}
	v.addr = addr
	v.set = true
	return nil
}

func (v *IPv4) Pretty() string { return v.addr.String() }

// IPv6 is a sixteen-byte IP address.
type IPv6 struct {
	addr netip.Addr
	set  bool
}

func NewIPv6(addr netip.Addr) *IPv6 { return &IPv6{addr: addr, set: true} }

func (v *IPv6) Addr() netip.Addr { return v.addr }
func (v *IPv6) Bytes() int { return 16 }
func (v *IPv6) IsSet() bool { return v.set }
func (v *IPv6) TypeName() string { return "ip6" }

func (v *IPv6) Read(r io.Reader) error {
	var buf [16]byte
	if err := readFull(r, buf[:]); err != nil {
		return err
	}
	v.addr = netip.AddrFrom16(buf)
	v.set = true
	return nil
}

func (v *IPv6) Write(w io.Writer) error {
	b := v.addr.As16()
	_, err := w.Write(b[:])
	return err
}

func (v *IPv6) Parse(s string) error {
	addr, err := netip.ParseAddr(s)
	if err != nil || !addr.Is6() || addr.Is4() {
		return fmt.Errorf("%w: %q is not an IPv6 address", ErrParse, s)
	}
	v.addr = addr
	v.set = true
	return nil
}

func (v *IPv6) Pretty() string { return v.addr.String() }

// MAC is a six-byte hardware address.
type MAC struct {
	addr [6]byte
	set  bool
}

func NewMAC(addr [6]byte) *MAC { return &MAC{addr: addr, set: true} }

func (v *MAC) Addr() [6]byte { return v.addr }
func (v *MAC) Bytes() int { return 6 }
func (v *MAC) IsSet() bool { return v.set }
func (v *MAC) TypeName() string { return "mac" }

func (v *MAC) Read(r io.Reader) error {
	if err := readFull(r, v.addr[:]); err != nil {
		return err
	}
	v.set = true
	return nil
}

func (v *MAC) Write(w io.Writer) error {
	_, err := w.Write(v.addr[:])
	return err
}

func (v *MAC) Parse(s string) error {
	hw, err := net.ParseMAC(s)
	if err != nil || len(hw) != 6 {
		return fmt.Errorf("%w: %q is not a MAC address", ErrParse, s)
	}
	copy(v.addr[:], hw)
	v.set = true
	return nil
}

func (v *MAC) Pretty() string {
	return net.HardwareAddr(v.addr[:]).String()
}
