package services

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	types "github.com/daftaros/daftar-backend/internal/domain"
)

//go:embed catalog.yaml
var catalogYAML []byte

// EventDef is one row of the notification event catalog: a closed, documented
// vocabulary loaded once at startup. New event types extend catalog.yaml and
// must name a registered audience rule or the process refuses to boot.
type EventDef struct {
	Key          string   `yaml:"key"`
	Roles        []string `yaml:"roles"`
	Channels     []string `yaml:"channels"`
	Category     string   `yaml:"category"`
	AudienceRule string   `yaml:"audience_rule"`
	Description  string   `yaml:"description"`
}

// Role collapses the eligible-role set into the role stored on a
// notification record: both roles eligible means "both".
func (d EventDef) Role() string {
	founder, investor := false, false
	for _, r := range d.Roles {
		switch r {
		case types.RoleFounder:
			founder = true
		case types.RoleInvestor:
			investor = true
		}
	}
	switch {
	case founder && investor:
		return types.RoleBoth
	case investor:
		return types.RoleInvestor
	default:
		return types.RoleFounder
	}
}

func (d EventDef) HasChannel(ch string) bool {
	for _, c := range d.Channels {
		if c == ch {
			return true
		}
	}
	return false
}

type EventCatalog struct {
	defs map[string]EventDef
}

type catalogFile struct {
	Events []EventDef `yaml:"events"`
}

// LoadEventCatalog parses the embedded catalog and validates every row
// eagerly. Any malformed row or unresolvable audience rule fails the load.
func LoadEventCatalog(resolver AudienceResolver) (*EventCatalog, error) {
	return loadEventCatalog(catalogYAML, resolver)
}

func loadEventCatalog(raw []byte, resolver AudienceResolver) (*EventCatalog, error) {
	if resolver == nil {
		return nil, fmt.Errorf("event catalog: audience resolver required")
	}

	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("event catalog: parse: %w", err)
	}
	if len(file.Events) == 0 {
		return nil, fmt.Errorf("event catalog: no events defined")
	}

	validCategories := map[string]bool{
		types.NotificationCategoryUpdates: true,
		types.NotificationCategoryAlert:   true,
		types.NotificationCategoryNews:    true,
		types.NotificationCategoryRequest: true,
		types.NotificationCategoryLink:    true,
		types.NotificationCategoryNone:    true,
	}

	defs := make(map[string]EventDef, len(file.Events))
	for _, def := range file.Events {
		if def.Key == "" {
			return nil, fmt.Errorf("event catalog: event with empty key")
		}
		if _, dup := defs[def.Key]; dup {
			return nil, fmt.Errorf("event catalog: duplicate key %q", def.Key)
		}
		if len(def.Roles) == 0 {
			return nil, fmt.Errorf("event catalog: %s: no roles", def.Key)
		}
		for _, r := range def.Roles {
			if r != types.RoleFounder && r != types.RoleInvestor {
				return nil, fmt.Errorf("event catalog: %s: invalid role %q", def.Key, r)
			}
		}
		if len(def.Channels) == 0 {
			return nil, fmt.Errorf("event catalog: %s: no channels", def.Key)
		}
		for _, ch := range def.Channels {
			if ch != types.ChannelLive && ch != types.ChannelMail {
				return nil, fmt.Errorf("event catalog: %s: invalid channel %q", def.Key, ch)
			}
		}
		if !validCategories[def.Category] {
			return nil, fmt.Errorf("event catalog: %s: invalid category %q", def.Key, def.Category)
		}
		if !resolver.Known(AudienceRule(def.AudienceRule)) {
			return nil, fmt.Errorf("event catalog: %s: unregistered audience rule %q", def.Key, def.AudienceRule)
		}
		defs[def.Key] = def
	}

	return &EventCatalog{defs: defs}, nil
}

func (c *EventCatalog) Get(eventKey string) (EventDef, bool) {
	def, ok := c.defs[eventKey]
	return def, ok
}

func (c *EventCatalog) Len() int {
	return len(c.defs)
}
