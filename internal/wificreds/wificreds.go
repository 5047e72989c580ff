// Package wificreds reads network credentials from the trust-store file.
//
// The store mirrors the Keira "kwifi" layout: passwords are keyed by an
// FNV-1a hash of the SSID rather than the SSID itself, so the file carries
// the SSID once and a table of hash-keyed secrets. It is consumed once at
// startup; the core never touches it again.
package wificreds

import (
	"errors"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	ErrNoSSID     = errors.New("wificreds: store has no ssid configured")
	ErrNoPassword = errors.New("wificreds: no password for ssid")
)

// Credentials is the startup handshake material for the network layer.
type Credentials struct {
	SSID     string
	Password string
}

type storeFile struct {
	SSID      string            `toml:"ssid"`
	Passwords map[string]string `toml:"passwords"`
}

// Load reads the trust-store at path and resolves the configured SSID's
// password by hash key.
func Load(path string) (Credentials, error) {
	var raw storeFile
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return Credentials{}, fmt.Errorf("load credential store: %w", err)
	}
	ssid := strings.TrimSpace(raw.SSID)
	if ssid == "" {
		return Credentials{}, ErrNoSSID
	}
	password, ok := raw.Passwords[HashKey(ssid)]
	if !ok {
		return Credentials{}, fmt.Errorf("%w: %q", ErrNoPassword, ssid)
	}
	return Credentials{SSID: ssid, Password: password}, nil
}

// HashKey derives the password-table key for one SSID.
func HashKey(ssid string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(ssid))
	return fmt.Sprintf("pw_%08x", h.Sum32())
}
