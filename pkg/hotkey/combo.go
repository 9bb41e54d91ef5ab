package hotkey

import (
	"fmt"
	"strings"
)

// aliases maps common spellings to the key names gohook registers.
var aliases = map[string]string{
	"control": "ctrl",
	"escape":  "esc",
	"option":  "alt",
	"win":     "cmd",
	"super":   "cmd",
	"meta":    "cmd",
	"command": "cmd",
	"return":  "enter",
	"del":     "delete",
}

var modifiers = map[string]bool{"ctrl": true, "alt": true, "shift": true, "cmd": true}

// ParseCombo converts "Ctrl+Shift+D" into gohook key names
// ([ctrl shift d]). Modifiers come first in their written order; a combo
// must name exactly one non-modifier key, unless it is a lone modifier.
func ParseCombo(combo string) ([]string, error) {
	combo = strings.TrimSpace(combo)
	if combo == "" {
		return nil, fmt.Errorf("hotkey: empty combination")
	}

	var mods, keys []string
	seen := map[string]bool{}
	for _, part := range strings.Split(strings.ToLower(combo), "+") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("hotkey: empty key in %q", combo)
		}
		if a, ok := aliases[part]; ok {
			part = a
		}
		if seen[part] {
			continue
		}
		seen[part] = true

		if modifiers[part] {
			mods = append(mods, part)
		} else {
			keys = append(keys, part)
		}
	}

	if len(keys) > 1 {
		return nil, fmt.Errorf("hotkey: %q names more than one key", combo)
	}
	return append(mods, keys...), nil
}
