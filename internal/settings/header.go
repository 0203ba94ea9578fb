package settings

import (
	"fmt"
	"strings"
)

// headerToString renders the framing summary shared by all container types.
func headerToString(typ, checksum string, checksumValid bool, size uint32, sizeValid bool,
	key string, encrypted bool, profileName string, autoProfile bool) string {

	var b strings.Builder

	fmt.Fprintf(&b, "type    : %s\n", typ)

	b.WriteString("profile : ")
	if profileName == "" {
		b.WriteString("(unknown)\n")
	} else if autoProfile {
		b.WriteString(profileName + "\n")
	} else {
		b.WriteString(profileName + " (forced)\n")
	}

	fmt.Fprintf(&b, "checksum: %s%s\n", checksum, badSuffix(checksumValid))
	fmt.Fprintf(&b, "size    : %d%s\n", size, badSuffix(sizeValid))

	if encrypted {
		if key == "" {
			key = "(unknown)"
		}
		fmt.Fprintf(&b, "key     : %s\n", key)
	}

	return b.String()
}

func badSuffix(valid bool) string {
	if valid {
		return ""
	}
	return " (bad)"
}
