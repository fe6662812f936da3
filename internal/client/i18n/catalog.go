// Package i18n serves the user-facing strings of the CLI from YAML catalogs
// embedded in the binary. Keys are dot-separated paths, e.g. "gate.needs_login".
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/dmitrijs2005/movieclient/internal/client/models"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// Catalog maps locale -> flattened key -> message.
type Catalog struct {
	messages map[models.Locale]map[string]string
	fallback models.Locale
}

// Load parses every embedded catalog.
func Load() (*Catalog, error) {
	return LoadFS(localeFS, "locales")
}

// LoadFS parses *.yaml files under dir. Each file holds one or more
// top-level locale keys.
func LoadFS(fsys fs.FS, dir string) (*Catalog, error) {
	files, err := fs.Glob(fsys, dir+"/*.yaml")
	if err != nil {
		return nil, err
	}

	c := &Catalog{messages: map[models.Locale]map[string]string{}, fallback: models.DefaultLocale}
	for _, name := range files {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		var doc map[string]map[string]any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		for lang, tree := range doc {
			loc := models.Locale(lang)
			if c.messages[loc] == nil {
				c.messages[loc] = map[string]string{}
			}
			flatten("", tree, c.messages[loc])
		}
	}
	if len(c.messages) == 0 {
		return nil, fmt.Errorf("no catalogs found in %s", dir)
	}
	return c, nil
}

func flatten(prefix string, tree map[string]any, out map[string]string) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case string:
			out[key] = val
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// T returns the message for key in loc, falling back to the default locale
// and then to the key itself. args are applied with fmt.Sprintf.
func (c *Catalog) T(loc models.Locale, key string, args ...any) string {
	msg, ok := c.messages[loc][key]
	if !ok {
		msg, ok = c.messages[c.fallback][key]
	}
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// TierName is the localized display name of t.
func (c *Catalog) TierName(loc models.Locale, t models.Tier) string {
	return c.T(loc, "tier."+strings.ToUpper(t.String()))
}

// Has reports whether loc defines key itself, without fallback.
func (c *Catalog) Has(loc models.Locale, key string) bool {
	_, ok := c.messages[loc][key]
	return ok
}
