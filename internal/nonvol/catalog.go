package nonvol

// Built-in group schemas. The catalog is deliberately partial: it covers the
// groups commonly edited on TWG/TC7200-class devices, and everything else
// stays opaque. Layouts follow the firmware's big-endian record formats.

func init() {
	RegisterSchema(&Schema{
		Magic: [4]byte{'C', 'M', 'A', 'p'},
		Name:  "bfc",
		Types: []GroupType{TypePerm, TypeDyn},
		Build: func(version uint16) *Compound {
			return NewCompound(
				Field{Name: "boot_mode", Val: NewEnum(1, map[uint32]string{
					0: "normal",
					1: "bootloader",
					2: "safe",
				})},
				Field{Name: "console", Val: NewBitmask(1, []string{"enabled", "muted", "remote"})},
				Field{Name: "fw_version", Val: &Version{}},
				Field{Name: "serial", Val: NewPString(1)},
			)
		},
	})

	RegisterSchema(&Schema{
		Magic: [4]byte{'M', 'L', 'o', 'g'},
		Name:  "userif",
		Types: []GroupType{TypeCfg},
		Build: func(version uint16) *Compound {
			return NewCompound(
				Field{Name: "http_user", Val: NewPString(2)},
				Field{Name: "http_pass", Val: NewPString(2)},
				Field{Name: "remote_user", Val: NewPString(2)},
				Field{Name: "remote_pass", Val: NewPString(2)},
				// only present in newer firmware
				Field{Name: "http_port", Val: &U16{}, Optional: true},
			)
		},
	})

	RegisterSchema(&Schema{
		Magic: [4]byte{'C', 'D', 'P', ' '},
		Name:  "dhcp",
		Types: []GroupType{TypeDyn, TypeCfg},
		Build: func(version uint16) *Compound {
			return NewCompound(
				Field{Name: "lease_time", Val: &U32{}},
				Field{Name: "domain", Val: &ZString{}},
				Field{Name: "pool_start", Val: &IPv4{}},
				Field{Name: "pool_end", Val: &IPv4{}},
				Field{Name: "dns", Val: NewArray(2, func() Val { return &IPv4{} })},
			)
		},
	})

	RegisterSchema(&Schema{
		Magic: [4]byte{'8', '0', '2', '1'},
		Name:  "wifi",
		Types: []GroupType{TypeDyn, TypeCfg},
		Build: func(version uint16) *Compound {
			return NewCompound(
				Field{Name: "ssid", Val: NewFString(32)},
				Field{Name: "bssid", Val: &MAC{}},
				Field{Name: "channel", Val: &U8{}},
				Field{Name: "mode", Val: NewEnum(1, map[uint32]string{
					0: "b",
					1: "g",
					2: "n",
				})},
				Field{Name: "security", Val: NewBitmask(1, []string{"wep", "wpa", "wpa2", "wps"})},
				Field{Name: "txpower", Val: &U8{}, Optional: true},
			)
		},
	})

	RegisterSchema(&Schema{
		Magic: [4]byte{'F', 'I', 'R', 'E'},
		Name:  "firewall",
		Types: []GroupType{TypeCfg},
		Build: func(version uint16) *Compound {
			return NewCompound(
				Field{Name: "features", Val: NewBitmask(2, []string{
					"enabled", "block_wan_ping", "block_fragments", "port_scan_detect", "ip_flood_detect",
				})},
				Field{Name: "allowed", Val: NewList(func() Val { return &IPv4{} })},
				Field{Name: "log_level", Val: NewEnum(1, map[uint32]string{
					0: "off",
					1: "events",
					2: "verbose",
				})},
			)
		},
	})
}
