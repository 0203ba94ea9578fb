// Package settings implements the container codecs for Broadcom nonvolatile
// settings dumps: the CRC-32-checksummed permnv/dynnv family and the
// MD5-checksummed, optionally AES-256-ECB-encrypted gwsettings family.
//
// Read inspects the first 16 bytes of a dump to pick the container codec,
// then validates or records the framing (magic, size, checksum), decrypts
// when needed, and parses the body into a group tree via the nonvol package.
// Integrity failures are recorded on the container rather than returned as
// errors, so damaged dumps remain inspectable; only structural failures
// (truncation, encode without a profile) abort an operation.
//
// Write re-encodes a container in one pass. A container that was decoded
// from a well-formed dump with a known profile re-encodes byte-identically.
package settings
