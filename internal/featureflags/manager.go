package featureflags

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// Flags the application evaluates. Anything else in the config string is
// parsed but only surfaced through Raw/Snapshot.
const (
	// FlagToxicityScorer ramps the external toxicity model per account.
	// Undefined means fully on (when the API is configured at all).
	FlagToxicityScorer = "toxicity_scorer"
)

// Manager evaluates feature flags defined in a simple key=value list, e.g.
// "toxicity_scorer=25%,new_place_search=off". Percentage values roll out
// deterministically per account, so one account always sees the same verdict
// path regardless of which instance serves it.
type Manager struct {
	flags map[string]string
}

// NewManager parses a comma-separated config string. Malformed pairs are
// dropped silently; a flag misspelled in config should read as absent, not
// crash the boot.
func NewManager(raw string) *Manager {
	out := make(map[string]string)

	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := normalize(parts[0])
		value := normalize(parts[1])
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}

	return &Manager{flags: out}
}

// Enabled reports whether a flag is on for the given account. Supported
// values: on/true/1, off/false/0, and N% for a deterministic per-account
// rollout. Anonymous traffic (accountID 0) never enters a percentage rollout.
func (m *Manager) Enabled(name string, accountID uint) bool {
	if m == nil {
		return false
	}

	value, ok := m.flags[normalize(name)]
	if !ok {
		return false
	}

	switch value {
	case "on", "true", "1":
		return true
	case "off", "false", "0":
		return false
	}

	if strings.HasSuffix(value, "%") {
		pct, err := strconv.Atoi(strings.TrimSuffix(value, "%"))
		if err != nil {
			return false
		}
		switch {
		case pct <= 0:
			return false
		case pct >= 100:
			return true
		case accountID == 0:
			return false
		}
		return rolloutBucket(name, accountID) < pct
	}

	return false
}

// Defined reports whether a flag is configured at all, regardless of value.
// Callers use it to keep default-on behavior when a flag is absent.
func (m *Manager) Defined(name string) bool {
	if m == nil {
		return false
	}
	_, ok := m.flags[normalize(name)]
	return ok
}

// Raw returns a copy of configured flags.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.flags))
	for k, v := range m.flags {
		out[k] = v
	}
	return out
}

// Snapshot returns evaluated flag status for one account.
func (m *Manager) Snapshot(accountID uint) map[string]bool {
	out := make(map[string]bool, len(m.flags))
	for name := range m.flags {
		out[name] = m.Enabled(name, accountID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name string, accountID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s:%d", normalize(name), accountID)))
	return int(h.Sum32() % 100)
}
