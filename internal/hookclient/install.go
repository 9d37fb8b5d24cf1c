package hookclient

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// lineageHookCommand identifies this project's entry among whatever else
// is already present in the client's settings.json.
const lineageHookCommand = "lineage-mcp-hook"

// hookEntry and hookMatcher mirror claude_hooks.go's claudeHookEntry/
// claudeHookMatcher: the AI client's own hook settings schema is a list
// of matcher blocks, each holding a list of command hooks.
type hookEntry struct {
	Type    string `json:"type"`
	Command string `json:"command"`
}

type hookMatcher struct {
	Matcher string      `json:"matcher,omitempty"`
	Hooks   []hookEntry `json:"hooks"`
}

// Install writes a PreCompact hook entry into settingsPath using the same
// read-preserve-modify-write pattern as internal/session/claude_hooks.go's
// InjectClaudeHooks, scoped to the single "PreCompact" event spec §4.10's
// hook fires on. clientName is embedded in the installed command so the
// hook can pass it as its argv[1] (precompact.py's <client_name>).
// Returns true if newly installed, false if already present.
func Install(settingsPath, hookBinaryPath, clientName string) (bool, error) {
	var rawSettings map[string]json.RawMessage
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return false, fmt.Errorf("hookclient: read settings: %w", err)
		}
		rawSettings = make(map[string]json.RawMessage)
	} else if err := json.Unmarshal(data, &rawSettings); err != nil {
		return false, fmt.Errorf("hookclient: parse settings: %w", err)
	}

	var hooks map[string]json.RawMessage
	if raw, ok := rawSettings["hooks"]; ok {
		if err := json.Unmarshal(raw, &hooks); err != nil {
			hooks = make(map[string]json.RawMessage)
		}
	} else {
		hooks = make(map[string]json.RawMessage)
	}

	command := fmt.Sprintf("%s %s", hookBinaryPath, clientName)

	if raw, ok := hooks["PreCompact"]; ok && eventHasHook(raw) {
		return false, nil
	}
	hooks["PreCompact"] = mergeHookEvent(hooks["PreCompact"], command)

	hooksRaw, err := json.Marshal(hooks)
	if err != nil {
		return false, fmt.Errorf("hookclient: marshal hooks: %w", err)
	}
	rawSettings["hooks"] = hooksRaw

	finalData, err := json.MarshalIndent(rawSettings, "", "  ")
	if err != nil {
		return false, fmt.Errorf("hookclient: marshal settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(settingsPath), 0o755); err != nil {
		return false, fmt.Errorf("hookclient: create settings dir: %w", err)
	}

	tmpPath := settingsPath + ".tmp"
	if err := os.WriteFile(tmpPath, finalData, 0o644); err != nil {
		return false, fmt.Errorf("hookclient: write settings.tmp: %w", err)
	}
	if err := os.Rename(tmpPath, settingsPath); err != nil {
		os.Remove(tmpPath)
		return false, fmt.Errorf("hookclient: rename settings: %w", err)
	}
	return true, nil
}

func eventHasHook(raw json.RawMessage) bool {
	var matchers []hookMatcher
	if err := json.Unmarshal(raw, &matchers); err != nil {
		return false
	}
	for _, m := range matchers {
		for _, h := range m.Hooks {
			if strings.Contains(h.Command, lineageHookCommand) {
				return true
			}
		}
	}
	return false
}

func mergeHookEvent(existing json.RawMessage, command string) json.RawMessage {
	var matchers []hookMatcher
	if existing != nil {
		if err := json.Unmarshal(existing, &matchers); err != nil {
			matchers = nil
		}
	}

	for i, m := range matchers {
		if m.Matcher == "" {
			matchers[i].Hooks = append(m.Hooks, hookEntry{Type: "command", Command: command})
			result, _ := json.Marshal(matchers)
			return result
		}
	}

	matchers = append(matchers, hookMatcher{
		Hooks: []hookEntry{{Type: "command", Command: command}},
	})
	result, _ := json.Marshal(matchers)
	return result
}
