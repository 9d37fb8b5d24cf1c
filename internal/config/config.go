// Package config loads appsettings.json for the lineage-mcp file service.
//
// Every key is optional; a missing key, a wrong-typed value, or a corrupt
// file all fall back to the documented default independently of the other
// keys (see spec §6).
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// DefaultInterruptMessage is returned by every tool call while a session is
// interrupted, unless appsettings.json overrides it.
const DefaultInterruptMessage = "\n" +
	"This is not the result you are looking for.\n" +
	"The MCP TOOLS has been disabled by the user.\n" +
	"Please read the message below and follow the instructions to re-enable the tools.\n\n" +
	"CRITICAL INTERRUPT - HALT ALL OPERATIONS IMMEDIATELY\n" +
	"Cancel all pending file operations, do not execute any more code, and\n" +
	"wait for the user before resuming."

// ClientOverride holds per-client overrides for a subset of settings.
type ClientOverride struct {
	ReadCharLimit int `json:"readCharLimit"`
}

// Config is the fully-resolved, defaulted settings for one file-service
// process. Construct with Load.
type Config struct {
	InstructionFileNames   []string
	NewSessionCooldownSecs float64
	EnableMultiRead        bool
	EnableMultiEdit        bool
	ReadCharLimit          int
	DebugClientInfo        bool
	AllowFullPaths         bool
	InterruptMessage       string
	ClientOverrides        map[string]ClientOverride
}

// Default returns the built-in defaults, used when appsettings.json is
// absent, unreadable, or malformed.
func Default() Config {
	return Config{
		InstructionFileNames:   []string{"AGENTS.md"},
		NewSessionCooldownSecs: 30,
		EnableMultiRead:        true,
		EnableMultiEdit:        true,
		ReadCharLimit:          50000,
		DebugClientInfo:        false,
		AllowFullPaths:         false,
		InterruptMessage:       DefaultInterruptMessage,
		ClientOverrides:        map[string]ClientOverride{},
	}
}

// Load reads appsettings.json from dir (the service's install directory)
// and overlays valid keys onto Default(). The file is first decoded one
// key at a time (via map[string]json.RawMessage) rather than into one
// struct in a single json.Unmarshal call: Unmarshal returns a
// *json.UnmarshalTypeError as soon as it hits one wrong-typed field, even
// after populating every other field correctly, which would otherwise
// discard an entire file's worth of valid overrides over one bad key. A
// per-key decode failure, a missing key, and an unreadable/corrupt file
// all fall back to the default independently of every other key.
func Load(dir string) Config {
	cfg := Default()

	path := filepath.Join(dir, "appsettings.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return cfg
	}

	if v, ok := decodeField[[]string](raw, "instructionFileNames"); ok && len(v) > 0 {
		cfg.InstructionFileNames = v
	}
	if v, ok := decodeField[json.Number](raw, "newSessionCooldownSeconds"); ok {
		if f, ok := numberValue(v); ok && f >= 0 {
			cfg.NewSessionCooldownSecs = f
		}
	}
	if v, ok := decodeField[bool](raw, "enableMultiRead"); ok {
		cfg.EnableMultiRead = v
	}
	if v, ok := decodeField[bool](raw, "enableMultiEdit"); ok {
		cfg.EnableMultiEdit = v
	}
	if v, ok := decodeField[json.Number](raw, "readCharLimit"); ok {
		if f, ok := numberValue(v); ok && f > 0 {
			cfg.ReadCharLimit = int(f)
		}
	}
	if v, ok := decodeField[bool](raw, "debugClientInfo"); ok {
		cfg.DebugClientInfo = v
	}
	if v, ok := decodeField[bool](raw, "allowFullPaths"); ok {
		cfg.AllowFullPaths = v
	}
	if v, ok := decodeField[string](raw, "interruptMessage"); ok && len(v) > 0 {
		cfg.InterruptMessage = v
	}
	if v, ok := decodeField[map[string]ClientOverride](raw, "clientOverrides"); ok && v != nil {
		cfg.ClientOverrides = v
	}

	return cfg
}

// decodeField unmarshals a single top-level key into T, reporting ok=false
// (rather than an error) on a missing key or a type mismatch, so a caller
// can simply leave the default in place.
func decodeField[T any](raw map[string]json.RawMessage, key string) (T, bool) {
	var zero T
	msg, present := raw[key]
	if !present {
		return zero, false
	}
	var v T
	if err := json.Unmarshal(msg, &v); err != nil {
		return zero, false
	}
	return v, true
}

func numberValue(n json.Number) (float64, bool) {
	if n == "" {
		return 0, false
	}
	v, err := n.Float64()
	if err != nil {
		return 0, false
	}
	return v, true
}

// ReadCharLimitFor returns the effective readCharLimit for clientName,
// checking ClientOverrides first (case-insensitive key match) before
// falling back to the global limit.
func (c Config) ReadCharLimitFor(clientName string) int {
	if clientName != "" {
		lower := strings.ToLower(clientName)
		for key, override := range c.ClientOverrides {
			if strings.ToLower(key) == lower && override.ReadCharLimit > 0 {
				return override.ReadCharLimit
			}
		}
	}
	return c.ReadCharLimit
}
