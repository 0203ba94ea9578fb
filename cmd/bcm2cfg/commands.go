package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/viro24/bcm2cfg/internal/logging"
	"github.com/viro24/bcm2cfg/internal/profile"
	"github.com/viro24/bcm2cfg/internal/settings"
)

// Persistent flags shared by the container commands
var (
	containerType string
	profileName   string
	keyHex        string
	password      string
	profilesPath  string
	strictMode    bool
	logLevel      string
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&containerType, "type", "t", "auto", "Container type (auto, perm, dyn, gwsettings)")
	pf.StringVarP(&profileName, "profile", "p", "", "Force a device profile (skips auto-detection)")
	pf.StringVarP(&keyHex, "key", "k", "", "AES-256 key as hex (64 digits)")
	pf.StringVarP(&password, "password", "P", "", "Derive the AES key from a password ('-' prompts)")
	pf.StringVar(&profilesPath, "profiles", "", "YAML file with additional device profiles")
	pf.BoolVar(&strictMode, "strict", false, "Fail on group parse errors instead of truncating")
	pf.StringVar(&logLevel, "log-level", "", "Log verbosity (debug, info, warn, error)")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(profilesCmd)
}

// registry loads the profile registry, with the optional YAML overlay.
func registry() (*profile.Registry, error) {
	if profilesPath == "" {
		return profile.Builtin(), nil
	}
	return profile.Load(profilesPath)
}

// buildOptions resolves the persistent flags into codec options.
func buildOptions() (settings.Options, error) {
	opts := settings.Options{
		Strict: strictMode,
		Logger: logging.GetLogger(),
	}

	reg, err := registry()
	if err != nil {
		return opts, err
	}
	opts.Registry = reg

	if profileName != "" {
		p, err := reg.Find(profileName)
		if err != nil {
			return opts, usageError{err}
		}
		opts.Profile = p
	}

	if keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			return opts, usageErrorf("--key must be 64 hex digits")
		}
		opts.Key = key
	}

	if password != "" {
		if opts.Profile == nil {
			return opts, usageErrorf("--password requires --profile")
		}
		if opts.Profile.KeyFromPassword == nil {
			return opts, usageErrorf("profile %s has no password key derivation", opts.Profile.Name)
		}
		pw := password
		if pw == "-" {
			pw, err = promptPassword()
			if err != nil {
				return opts, err
			}
		}
		opts.Key = opts.Profile.KeyFromPassword(pw)
	}

	return opts, nil
}

// promptPassword reads a password from the terminal without echo.
func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pw), nil
}

// loadContainer decodes the file at path using the flag-derived options.
func loadContainer(path string) (settings.Container, error) {
	opts, err := buildOptions()
	if err != nil {
		return nil, err
	}

	hint, err := settings.ParseHint(containerType)
	if err != nil {
		return nil, usageError{err}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	c, err := settings.Read(f, hint, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return c, nil
}

var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Show container header and settings groups",
	Long: `Decode a settings dump and display its framing (type, profile, checksum,
size, encryption key) followed by every group and its values.

Unknown groups are displayed as hex dumps.`,
	Example: `  # Auto-detect everything
  bcm2cfg show gwsettings.bin

  # A dynnv image needs a type hint
  bcm2cfg show --type dyn dynnv.bin

  # Force profile and key
  bcm2cfg show --profile tc7200 --key 000102...1f gwsettings.bin`,
	Args: exactArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	c, err := loadContainer(args[0])
	if err != nil {
		return err
	}

	fmt.Print(renderHeader(c))

	groups := c.Groups()
	if groups == nil {
		return nil
	}

	for _, g := range groups.Groups() {
		fmt.Println()
		fmt.Println(renderGroupTitle(fmt.Sprintf("%s v%d (%s, %d bytes)",
			g.Name(), g.Version(), g.MagicString(), g.Bytes())))
		fmt.Println(g.Pretty())
	}

	return nil
}

var getCmd = &cobra.Command{
	Use:   "get <file> <name>",
	Short: "Print one value",
	Long: `Resolve a dotted name ("group.field" or deeper) and print the value in
its canonical textual form.`,
	Example: `  bcm2cfg get gwsettings.bin userif.http_pass
  bcm2cfg get --type dyn dynnv.bin dhcp.lease_time`,
	Args: exactArgs(2),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	c, err := loadContainer(args[0])
	if err != nil {
		return err
	}

	v, err := c.Find(args[1])
	if err != nil {
		return err
	}

	fmt.Printf("%s = %s\n", args[1], v.Pretty())
	return nil
}

var setCmd = &cobra.Command{
	Use:   "set <file> <name> <value>",
	Short: "Set one value and re-encode the file",
	Long: `Resolve a dotted name, parse the new value from text, then re-encode and
rewrite the whole file. Sizes and checksums are recomputed; for gwsettings
files a device profile must be known (auto-detected or forced).`,
	Example: `  bcm2cfg set gwsettings.bin userif.http_pass secret
  bcm2cfg set --profile tc7200 gwsettings.bin wifi.channel 6`,
	Args: exactArgs(3),
	RunE: runSet,
}

func runSet(cmd *cobra.Command, args []string) error {
	path, name, value := args[0], args[1], args[2]

	c, err := loadContainer(path)
	if err != nil {
		return err
	}

	v, err := c.Find(name)
	if err != nil {
		return err
	}
	if err := v.Parse(value); err != nil {
		return fmt.Errorf("failed to parse %q for %s: %w", value, name, err)
	}

	var buf bytes.Buffer
	if err := c.Write(&buf); err != nil {
		return fmt.Errorf("failed to encode container: %w", err)
	}

	// write to a temporary file first, then rename into place
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	fmt.Printf("%s = %s\n", name, v.Pretty())
	return nil
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List known device profiles",
	Long: `List the device profiles the codec knows about, in detection order.
Use --profiles to overlay additional profiles from a YAML file.`,
	RunE: runProfiles,
}

func runProfiles(cmd *cobra.Command, args []string) error {
	reg, err := registry()
	if err != nil {
		return err
	}

	for _, p := range reg.List() {
		fmt.Printf("%-10s %s\n", p.Name, p.Pretty)
		if len(p.MD5Key) > 0 {
			fmt.Printf("           md5 key: %s\n", hex.EncodeToString(p.MD5Key))
		}
		if n := len(p.DefaultKeys); n > 0 {
			fmt.Printf("           default AES keys: %d\n", n)
		}
		if p.KeyFromPassword != nil {
			fmt.Printf("           supports password-derived keys\n")
		}
	}
	return nil
}
