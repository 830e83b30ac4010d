package featureflags

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// Known flags.
const (
	Signup   = "signup"
	LiveFeed = "live_feed"
)

// Defaults apply to known flags missing from the configured list.
var Defaults = map[string]string{
	Signup:   "on",
	LiveFeed: "off",
}

type rule struct {
	percent int // 0..100; 100 means fully on
	raw     string
}

// Manager evaluates flags from a comma-separated list such as
// "signup=on,live_feed=25%". Unparseable values evaluate as off.
type Manager struct {
	rules map[string]rule
}

// NewManager parses raw on top of Defaults.
func NewManager(raw string) *Manager {
	m := &Manager{rules: make(map[string]rule, len(Defaults))}
	for name, value := range Defaults {
		m.rules[name] = parseRule(value)
	}

	for _, pair := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		name, value = normalize(name), normalize(value)
		if name == "" || value == "" {
			continue
		}
		m.rules[name] = parseRule(value)
	}
	return m
}

func parseRule(value string) rule {
	switch value {
	case "on", "true", "1":
		return rule{percent: 100, raw: value}
	case "off", "false", "0":
		return rule{percent: 0, raw: value}
	}
	if pct, ok := strings.CutSuffix(value, "%"); ok {
		n, err := strconv.Atoi(pct)
		if err == nil {
			return rule{percent: min(max(n, 0), 100), raw: value}
		}
	}
	return rule{percent: 0, raw: value}
}

// Enabled reports whether name is on for userID. Partial rollouts bucket users
// deterministically and never include anonymous callers (userID 0).
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}
	r, ok := m.rules[normalize(name)]
	if !ok {
		return false
	}
	switch {
	case r.percent >= 100:
		return true
	case r.percent <= 0, userID == 0:
		return false
	}
	return bucket(name, userID) < r.percent
}

// Names lists configured flags in sorted order.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.rules))
	for name := range m.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Raw returns the configured value of every flag.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.rules))
	for name, r := range m.rules {
		out[name] = r.raw
	}
	return out
}

// Snapshot evaluates every flag for one user.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(m.rules))
	for name := range m.rules {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func bucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = fmt.Fprintf(h, "%s:%d", normalize(name), userID)
	return int(h.Sum32() % 100)
}
