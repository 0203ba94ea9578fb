package settings

import (
	"crypto/aes"
	"fmt"
)

// cryptECB runs AES-256 in ECB mode over data, block by block. The firmware
// deviates from plain ECB in one way that must be reproduced exactly: any
// trailing sub-block bytes are copied verbatim from input to output, in both
// directions. On encrypt with pad set, 16 zero bytes are appended to the
// plaintext before block processing; this cipher-aligns the final block and
// accounts for the 16-byte trailer of padded gwsettings files.
func cryptECB(data, key []byte, decrypt, pad bool) ([]byte, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("%w: got %d", ErrBadKey, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("AES init: %w", err)
	}

	if !decrypt && pad {
		padded := make([]byte, len(data)+16)
		copy(padded, data)
		data = padded
	}

	out := make([]byte, len(data))
	i := 0
	for ; i+aes.BlockSize <= len(data); i += aes.BlockSize {
		if decrypt {
			block.Decrypt(out[i:i+aes.BlockSize], data[i:i+aes.BlockSize])
		} else {
			block.Encrypt(out[i:i+aes.BlockSize], data[i:i+aes.BlockSize])
		}
	}
	copy(out[i:], data[i:])

	return out, nil
}
