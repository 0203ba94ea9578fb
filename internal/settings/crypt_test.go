package settings

import (
	"bytes"
	"errors"
	"testing"
)

func testKey() []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestCryptECBRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"one block", 16},
		{"several blocks", 64},
		{"sub-block tail", 40},
		{"shorter than a block", 10},
		{"empty", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plain := make([]byte, tt.size)
			for i := range plain {
				plain[i] = byte(i * 7)
			}

			enc, err := cryptECB(plain, testKey(), false, false)
			if err != nil {
				t.Fatalf("encrypt error = %v", err)
			}
			if len(enc) != len(plain) {
				t.Fatalf("ciphertext length = %d, want %d", len(enc), len(plain))
			}

			dec, err := cryptECB(enc, testKey(), true, false)
			if err != nil {
				t.Fatalf("decrypt error = %v", err)
			}
			if !bytes.Equal(dec, plain) {
				t.Errorf("decrypt(encrypt(x)) != x")
			}
		})
	}
}

func TestCryptECBTailCopiedVerbatim(t *testing.T) {
	plain := make([]byte, 21)
	for i := range plain {
		plain[i] = byte(i + 1)
	}

	enc, err := cryptECB(plain, testKey(), false, false)
	if err != nil {
		t.Fatal(err)
	}

	// the 5 trailing bytes pass through unencrypted
	if !bytes.Equal(enc[16:], plain[16:]) {
		t.Errorf("tail = %x, want %x", enc[16:], plain[16:])
	}
	if bytes.Equal(enc[:16], plain[:16]) {
		t.Error("first block should be encrypted")
	}
}

func TestCryptECBPadAppendsZeroBlock(t *testing.T) {
	plain := make([]byte, 32)
	for i := range plain {
		plain[i] = 0xA5
	}

	enc, err := cryptECB(plain, testKey(), false, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(enc) != len(plain)+16 {
		t.Fatalf("padded ciphertext length = %d, want %d", len(enc), len(plain)+16)
	}

	dec, err := cryptECB(enc, testKey(), true, false)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(dec[:32], plain) {
		t.Error("plaintext not recovered")
	}
	if !bytes.Equal(dec[32:], make([]byte, 16)) {
		t.Errorf("pad block = %x, want 16 zero bytes", dec[32:])
	}
}

func TestCryptECBBadKey(t *testing.T) {
	_, err := cryptECB([]byte{1, 2, 3}, []byte("short"), false, false)
	if !errors.Is(err, ErrBadKey) {
		t.Errorf("error = %v, want ErrBadKey", err)
	}
}
