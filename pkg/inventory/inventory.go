// Package inventory loads the maxpfx configuration file: the routers to
// audit, registry endpoint and cache, and headroom policy tuning.
package inventory

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/maxpfx-net/maxpfx/pkg/limit"
	"github.com/maxpfx-net/maxpfx/pkg/util"
)

// DefaultPath is where the inventory lives unless overridden.
const DefaultPath = "/etc/maxpfx/inventory.yaml"

// Router describes one router to audit.
type Router struct {
	Name     string `yaml:"name"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port,omitempty"`
	User     string `yaml:"user"`
	Password string `yaml:"password,omitempty"`
	KeyFile  string `yaml:"key_file,omitempty"`
}

// Registry configures the prefix-count registry and its optional cache.
type Registry struct {
	// URL overrides the public PeeringDB endpoint (e.g. a local mirror).
	URL string `yaml:"url,omitempty"`
	// CacheAddr is a Redis address; empty disables caching.
	CacheAddr string        `yaml:"cache_addr,omitempty"`
	CacheTTL  time.Duration `yaml:"cache_ttl,omitempty"`
}

// Limits tunes the headroom model.
type Limits struct {
	TeardownPercent int    `yaml:"teardown_percent,omitempty"`
	ClampMultiplier *bool  `yaml:"clamp_multiplier,omitempty"`
	ZeroPolicy      string `yaml:"zero_policy,omitempty"`
}

// Inventory is the parsed configuration file.
type Inventory struct {
	Routers  []Router `yaml:"routers"`
	Registry Registry `yaml:"registry,omitempty"`
	Limits   Limits   `yaml:"limits,omitempty"`
}

// Load reads and validates an inventory file.
func Load(path string) (*Inventory, error) {
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading inventory %s: %w", path, err)
	}

	var inv Inventory
	if err := yaml.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("parsing inventory %s: %w", path, err)
	}

	if err := inv.validate(); err != nil {
		return nil, fmt.Errorf("inventory %s: %w", path, err)
	}
	return &inv, nil
}

func (inv *Inventory) validate() error {
	var v util.ValidationBuilder
	v.Add(len(inv.Routers) > 0, "no routers defined")

	seen := make(map[string]bool)
	for i, r := range inv.Routers {
		v.Add(r.Name != "", fmt.Sprintf("router %d: name is required", i))
		v.Add(r.Host != "", fmt.Sprintf("router %q: host is required", r.Name))
		v.Add(r.User != "", fmt.Sprintf("router %q: user is required", r.Name))
		v.Add(!seen[r.Name], fmt.Sprintf("duplicate router name %q", r.Name))
		seen[r.Name] = true
	}

	if inv.Limits.TeardownPercent != 0 {
		v.Add(inv.Limits.TeardownPercent >= 1 && inv.Limits.TeardownPercent <= 100,
			fmt.Sprintf("teardown_percent %d outside [1,100]", inv.Limits.TeardownPercent))
	}
	switch inv.Limits.ZeroPolicy {
	case "", string(limit.ZeroSkip), string(limit.ZeroAsOne):
	default:
		v.AddErrorf("zero_policy %q: must be %q or %q", inv.Limits.ZeroPolicy, limit.ZeroSkip, limit.ZeroAsOne)
	}
	return v.Build()
}

// Router finds a router by name. With a single-router inventory an empty
// name selects that router.
func (inv *Inventory) Router(name string) (*Router, error) {
	if name == "" {
		if len(inv.Routers) == 1 {
			return &inv.Routers[0], nil
		}
		return nil, fmt.Errorf("multiple routers defined: select one with -r")
	}
	for i := range inv.Routers {
		if inv.Routers[i].Name == name {
			return &inv.Routers[i], nil
		}
	}
	return nil, fmt.Errorf("router %q not found in inventory", name)
}

// Model returns the headroom model with inventory overrides applied.
func (inv *Inventory) Model() limit.Model {
	m := limit.DefaultModel()
	if inv.Limits.TeardownPercent != 0 {
		m.TeardownPercent = inv.Limits.TeardownPercent
	}
	if inv.Limits.ClampMultiplier != nil {
		m.ClampMultiplier = *inv.Limits.ClampMultiplier
	}
	if inv.Limits.ZeroPolicy != "" {
		m.ZeroPolicy = limit.ZeroPolicy(inv.Limits.ZeroPolicy)
	}
	return m
}
