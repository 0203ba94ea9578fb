package nonvol

import (
	"bytes"
	"errors"
	"testing"
)

// roundTrip reads v from data, then writes it back and compares.
func roundTrip(t *testing.T, v Val, data []byte) {
	t.Helper()

	if err := v.Read(bytes.NewReader(data)); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !v.IsSet() {
		t.Error("IsSet() should be true after Read")
	}
	if v.Bytes() != len(data) {
		t.Errorf("Bytes() = %d, want %d", v.Bytes(), len(data))
	}

	var buf bytes.Buffer
	if err := v.Write(&buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !bytes.Equal(buf.Bytes(), data) {
		t.Errorf("Write() = %x, want %x", buf.Bytes(), data)
	}
}

func TestIntegers(t *testing.T) {
	tests := []struct {
		name   string
		val    Val
		data   []byte
		pretty string
	}{
		{"u8", &U8{}, []byte{0xab}, "171"},
		{"u16 big-endian", &U16{}, []byte{0x12, 0x34}, "4660"},
		{"u32 big-endian", &U32{}, []byte{0x00, 0x01, 0x02, 0x03}, "66051"},
		{"u32 little-endian", &U32{LittleEndian: true}, []byte{0x03, 0x02, 0x01, 0x00}, "66051"},
		{"i8 negative", &I8{}, []byte{0xff}, "-1"},
		{"i16 negative", &I16{}, []byte{0xff, 0xfe}, "-2"},
		{"i32 negative", &I32{}, []byte{0xff, 0xff, 0xff, 0xfd}, "-3"},
		{"version", &Version{}, []byte{0x02, 0x15}, "2.21"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roundTrip(t, tt.val, tt.data)
			if got := tt.val.Pretty(); got != tt.pretty {
				t.Errorf("Pretty() = %q, want %q", got, tt.pretty)
			}
		})
	}
}

func TestIntegerParse(t *testing.T) {
	tests := []struct {
		name    string
		val     Val
		text    string
		want    []byte
		wantErr bool
	}{
		{"u8 decimal", &U8{}, "200", []byte{0xc8}, false},
		{"u8 hex", &U8{}, "0x7f", []byte{0x7f}, false},
		{"u8 overflow", &U8{}, "256", nil, true},
		{"u16 hex", &U16{}, "0xbeef", []byte{0xbe, 0xef}, false},
		{"u32 hex", &U32{}, "0xdeadbeef", []byte{0xde, 0xad, 0xbe, 0xef}, false},
		{"i8 negative", &I8{}, "-128", []byte{0x80}, false},
		{"version", &Version{}, "1.2", []byte{0x01, 0x02}, false},
		{"version missing dot", &Version{}, "12", nil, true},
		{"u16 garbage", &U16{}, "cheese", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.val.Parse(tt.text)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrParse) {
					t.Errorf("error should wrap ErrParse, got %v", err)
				}
				return
			}

			var buf bytes.Buffer
			if err := tt.val.Write(&buf); err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(buf.Bytes(), tt.want) {
				t.Errorf("Write() after Parse = %x, want %x", buf.Bytes(), tt.want)
			}
		})
	}
}

func TestStrings(t *testing.T) {
	t.Run("fstring", func(t *testing.T) {
		s := NewFString(8)
		roundTrip(t, s, []byte("abc\x00\x00\x00\x00\x00"))
		if got := s.String(); got != "abc" {
			t.Errorf("String() = %q, want %q", got, "abc")
		}
		if got := s.Pretty(); got != `"abc"` {
			t.Errorf("Pretty() = %q", got)
		}
	})

	t.Run("fstring parse too long", func(t *testing.T) {
		s := NewFString(4)
		if err := s.Parse("abcde"); err == nil {
			t.Error("Parse() should fail")
		}
	})

	t.Run("fstring parse pads", func(t *testing.T) {
		s := NewFString(4)
		if err := s.Parse("ab"); err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		if err := s.Write(&buf); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(buf.Bytes(), []byte("ab\x00\x00")) {
			t.Errorf("Write() = %x", buf.Bytes())
		}
	})

	t.Run("pstring width 1", func(t *testing.T) {
		s := NewPString(1)
		roundTrip(t, s, []byte{0x05, 'h', 'e', 'l', 'l', 'o'})
		if got := s.String(); got != "hello" {
			t.Errorf("String() = %q", got)
		}
	})

	t.Run("pstring width 2", func(t *testing.T) {
		s := NewPString(2)
		roundTrip(t, s, []byte{0x00, 0x02, 'h', 'i'})
	})

	t.Run("pstring bytes tracks content", func(t *testing.T) {
		s := NewPString(1)
		if s.Bytes() != 1 {
			t.Errorf("empty Bytes() = %d, want 1", s.Bytes())
		}
		if err := s.Parse("abcd"); err != nil {
			t.Fatal(err)
		}
		if s.Bytes() != 5 {
			t.Errorf("Bytes() = %d, want 5", s.Bytes())
		}
	})

	t.Run("pstring truncated payload", func(t *testing.T) {
		s := NewPString(1)
		err := s.Read(bytes.NewReader([]byte{0x05, 'h', 'i'}))
		if !errors.Is(err, ErrTruncated) {
			t.Errorf("error = %v, want ErrTruncated", err)
		}
	})

	t.Run("zstring", func(t *testing.T) {
		s := &ZString{}
		roundTrip(t, s, []byte("net\x00"))
		if got := s.String(); got != "net" {
			t.Errorf("String() = %q", got)
		}
	})

	t.Run("zstring unterminated", func(t *testing.T) {
		s := &ZString{}
		err := s.Read(bytes.NewReader([]byte("never-ends")))
		if !errors.Is(err, ErrTruncated) {
			t.Errorf("error = %v, want ErrTruncated", err)
		}
	})
}

func TestAddresses(t *testing.T) {
	t.Run("ipv4", func(t *testing.T) {
		v := &IPv4{}
		roundTrip(t, v, []byte{192, 168, 0, 1})
		if got := v.Pretty(); got != "192.168.0.1" {
			t.Errorf("Pretty() = %q", got)
		}
		if err := v.Parse("10.0.0.138"); err != nil {
			t.Fatal(err)
		}
		if err := v.Parse("fe80::1"); err == nil {
			t.Error("Parse(v6) should fail on ipv4")
		}
	})

	t.Run("ipv6", func(t *testing.T) {
		v := &IPv6{}
		data := []byte{0xfe, 0x80, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1}
		roundTrip(t, v, data)
		if got := v.Pretty(); got != "fe80::1" {
			t.Errorf("Pretty() = %q", got)
		}
		if err := v.Parse("10.0.0.1"); err == nil {
			t.Error("Parse(v4) should fail on ipv6")
		}
	})

	t.Run("mac", func(t *testing.T) {
		v := &MAC{}
		roundTrip(t, v, []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55})
		if got := v.Pretty(); got != "00:11:22:33:44:55" {
			t.Errorf("Pretty() = %q", got)
		}
		if err := v.Parse("aa:bb:cc:dd:ee:ff"); err != nil {
			t.Fatal(err)
		}
		if err := v.Parse("not-a-mac"); err == nil {
			t.Error("Parse(garbage) should fail")
		}
	})
}

func TestArrayAndList(t *testing.T) {
	t.Run("array", func(t *testing.T) {
		a := NewArray(3, func() Val { return &U16{} })
		roundTrip(t, a, []byte{0x00, 0x01, 0x00, 0x02, 0x00, 0x03})
		if got := a.Pretty(); got != "[1, 2, 3]" {
			t.Errorf("Pretty() = %q", got)
		}
	})

	t.Run("array parse wrong count", func(t *testing.T) {
		a := NewArray(2, func() Val { return &U8{} })
		if err := a.Parse("1, 2, 3"); err == nil {
			t.Error("Parse() should fail")
		}
	})

	t.Run("list", func(t *testing.T) {
		l := NewList(func() Val { return &IPv4{} })
		data := []byte{0x02, 10, 0, 0, 1, 10, 0, 0, 2}
		roundTrip(t, l, data)
		if got := l.Pretty(); got != "[10.0.0.1, 10.0.0.2]" {
			t.Errorf("Pretty() = %q", got)
		}
	})

	t.Run("list parse", func(t *testing.T) {
		l := NewList(func() Val { return &U8{} })
		if err := l.Parse("[1, 2]"); err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		if err := l.Write(&buf); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(buf.Bytes(), []byte{0x02, 0x01, 0x02}) {
			t.Errorf("Write() = %x", buf.Bytes())
		}
	})

	t.Run("empty list", func(t *testing.T) {
		l := NewList(func() Val { return &U8{} })
		roundTrip(t, l, []byte{0x00})
	})
}

func TestEnum(t *testing.T) {
	labels := map[uint32]string{0: "off", 1: "events", 2: "verbose"}

	e := NewEnum(1, labels)
	roundTrip(t, e, []byte{0x02})
	if got := e.Pretty(); got != "verbose" {
		t.Errorf("Pretty() = %q", got)
	}

	if err := e.Parse("events"); err != nil {
		t.Fatal(err)
	}
	if e.Num() != 1 {
		t.Errorf("Num() = %d, want 1", e.Num())
	}

	// unknown values stay numeric
	if err := e.Parse("7"); err != nil {
		t.Fatal(err)
	}
	if got := e.Pretty(); got != "7" {
		t.Errorf("Pretty() = %q", got)
	}

	if err := e.Parse("sideways"); err == nil {
		t.Error("Parse(unknown label) should fail")
	}
}

func TestBitmask(t *testing.T) {
	b := NewBitmask(2, []string{"enabled", "block_wan_ping", "block_fragments"})
	roundTrip(t, b, []byte{0x00, 0x05})
	if got := b.Pretty(); got != "0x0005 [enabled block_fragments]" {
		t.Errorf("Pretty() = %q", got)
	}

	if err := b.Parse("enabled+block_wan_ping"); err != nil {
		t.Fatal(err)
	}
	if b.Num() != 0x03 {
		t.Errorf("Num() = 0x%x, want 0x3", b.Num())
	}

	if err := b.Parse("0x8000"); err != nil {
		t.Fatal(err)
	}
	if got := b.Pretty(); got != "0x8000 [bit15]" {
		t.Errorf("Pretty() = %q", got)
	}

	if err := b.Parse(""); err != nil {
		t.Fatal(err)
	}
	if b.Num() != 0 {
		t.Errorf("Num() = %d, want 0", b.Num())
	}

	if err := b.Parse("nosuchflag"); err == nil {
		t.Error("Parse(unknown flag) should fail")
	}
}

func TestBytesVal(t *testing.T) {
	t.Run("fixed size", func(t *testing.T) {
		b := NewBytes(4)
		roundTrip(t, b, []byte{1, 2, 3, 4})
		if got := b.Pretty(); got != "01020304" {
			t.Errorf("Pretty() = %q", got)
		}
	})

	t.Run("consume all", func(t *testing.T) {
		b := NewBytesAll()
		roundTrip(t, b, []byte{9, 8, 7})
	})

	t.Run("parse hex", func(t *testing.T) {
		b := NewBytes(2)
		if err := b.Parse("cafe"); err != nil {
			t.Fatal(err)
		}
		if err := b.Parse("cafe00"); err == nil {
			t.Error("Parse() with wrong length should fail")
		}
	})
}

func TestCompound(t *testing.T) {
	build := func() *Compound {
		return NewCompound(
			Field{Name: "a", Val: &U16{}},
			Field{Name: "b", Val: NewPString(1)},
			Field{Name: "opt", Val: &U32{}, Optional: true},
		)
	}

	t.Run("all fields present", func(t *testing.T) {
		c := build()
		data := []byte{0x00, 0x07, 0x02, 'h', 'i', 0xde, 0xad, 0xbe, 0xef}
		roundTrip(t, c, data)

		v, err := c.Find("opt")
		if err != nil {
			t.Fatal(err)
		}
		if v.(*U32).Num() != 0xdeadbeef {
			t.Errorf("opt = 0x%x", v.(*U32).Num())
		}
	})

	t.Run("optional field skipped on short budget", func(t *testing.T) {
		c := build()
		data := []byte{0x00, 0x07, 0x02, 'h', 'i'}
		roundTrip(t, c, data) // Bytes() must equal the 5 consumed bytes

		if _, err := c.Find("opt"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Find(opt) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("sum of children equals compound bytes", func(t *testing.T) {
		c := build()
		data := []byte{0x00, 0x07, 0x03, 'a', 'b', 'c', 0, 0, 0, 1}
		if err := c.Read(bytes.NewReader(data)); err != nil {
			t.Fatal(err)
		}
		sum := 0
		for _, f := range c.Fields() {
			sum += f.Val.Bytes()
		}
		if c.Bytes() != sum {
			t.Errorf("Bytes() = %d, sum of children = %d", c.Bytes(), sum)
		}
	})

	t.Run("nested find", func(t *testing.T) {
		inner := NewCompound(Field{Name: "leaf", Val: &U8{}})
		outer := NewCompound(Field{Name: "in", Val: inner})
		if err := outer.Read(bytes.NewReader([]byte{0x2a})); err != nil {
			t.Fatal(err)
		}
		v, err := outer.Find("in.leaf")
		if err != nil {
			t.Fatal(err)
		}
		if v.(*U8).Num() != 42 {
			t.Errorf("leaf = %d, want 42", v.(*U8).Num())
		}
	})

	t.Run("find through non-compound", func(t *testing.T) {
		c := build()
		if err := c.Read(bytes.NewReader([]byte{0, 1, 0, 0, 0, 0, 1})); err != nil {
			t.Fatal(err)
		}
		if _, err := c.Find("a.b"); !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("truncated non-optional field", func(t *testing.T) {
		c := NewCompound(Field{Name: "x", Val: &U32{}})
		err := c.Read(bytes.NewReader([]byte{1, 2}))
		if !errors.Is(err, ErrTruncated) {
			t.Errorf("error = %v, want ErrTruncated", err)
		}
	})

	t.Run("duplicate field names panic", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("NewCompound should panic on duplicate names")
			}
		}()
		NewCompound(Field{Name: "x", Val: &U8{}}, Field{Name: "x", Val: &U8{}})
	})
}
