package runtimeconfig

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-featuregate/internal/validation"
)

var ErrFileFormatUnsupported = errors.New("featuregate config: file format is unsupported")

//go:embed registry.schema.json
var registrySchemaJSON []byte

var registrySchema = validation.MustCompile("registry.schema.json", registrySchemaJSON)

// fileDocument mirrors the registry shape used by the scaffold config files.
// Pointers distinguish "absent" from "false"/"" so a file only overrides
// what it mentions.
type fileDocument struct {
	Environment *string       `json:"environment"`
	Features    *fileFeatures `json:"features"`
	Services    *fileServices `json:"services"`
	UI          *fileUI       `json:"ui"`
	Logging     *fileLogging  `json:"logging"`
}

type fileFeatures struct {
	Auth       *bool `json:"auth"`
	Convex     *bool `json:"convex"`
	Payments   *bool `json:"payments"`
	Monitoring *bool `json:"monitoring"`
}

type fileServices struct {
	Clerk *struct {
		Enabled        *bool   `json:"enabled"`
		PublishableKey *string `json:"publishableKey"`
	} `json:"clerk"`
	Convex *struct {
		Enabled    *bool   `json:"enabled"`
		URL        *string `json:"url"`
		Deployment *string `json:"deployment"`
	} `json:"convex"`
	RevenueCat *struct {
		Enabled       *bool   `json:"enabled"`
		APIKey        *string `json:"apiKey"`
		EntitlementID *string `json:"entitlementId"`
	} `json:"revenueCat"`
	Sentry *struct {
		Enabled          *bool    `json:"enabled"`
		DSN              *string  `json:"dsn"`
		TracesSampleRate *float64 `json:"tracesSampleRate"`
		Environment      *string  `json:"environment"`
	} `json:"sentry"`
}

type fileUI struct {
	ShowAuth      *bool `json:"showAuth"`
	ShowDashboard *bool `json:"showDashboard"`
	ShowPaywall   *bool `json:"showPaywall"`
	ShowSettings  *bool `json:"showSettings"`
}

type fileLogging struct {
	Provider  *string  `json:"provider"`
	Level     *string  `json:"level"`
	Format    *string  `json:"format"`
	AddSource *bool    `json:"addSource"`
	Focus     []string `json:"focus"`
}

// LoadFile reads a YAML, JSON or TOML registry file and overlays it onto
// base. The file is checked against the registry schema before anything is
// applied.
func LoadFile(path string, base Config) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("featuregate config: read %s: %w", path, err)
	}
	return Decode(filepath.Ext(path), raw, path, base)
}

// Decode parses raw according to ext (".yaml", ".yml", ".json", ".toml")
// and overlays the result onto base. source names the document in errors.
func Decode(ext string, raw []byte, source string, base Config) (Config, error) {
	var doc map[string]any
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return Config{}, fmt.Errorf("featuregate config: parse %s: %w", source, err)
		}
	case ".json":
		if err := json.Unmarshal(raw, &doc); err != nil {
			return Config{}, fmt.Errorf("featuregate config: parse %s: %w", source, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(raw), &doc); err != nil {
			return Config{}, fmt.Errorf("featuregate config: parse %s: %w", source, err)
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrFileFormatUnsupported, ext)
	}
	if doc == nil {
		doc = map[string]any{}
	}

	if err := registrySchema.Validate(source, doc); err != nil {
		return Config{}, err
	}

	encoded, err := json.Marshal(doc)
	if err != nil {
		return Config{}, fmt.Errorf("featuregate config: normalise %s: %w", source, err)
	}
	var typed fileDocument
	if err := json.Unmarshal(encoded, &typed); err != nil {
		return Config{}, fmt.Errorf("featuregate config: decode %s: %w", source, err)
	}

	cfg := base.Clone()
	typed.apply(&cfg)
	return cfg, nil
}

func (d fileDocument) apply(cfg *Config) {
	if d.Environment != nil {
		cfg.Environment = strings.ToLower(strings.TrimSpace(*d.Environment))
	}
	if f := d.Features; f != nil {
		setBool(&cfg.Features.Auth, f.Auth)
		setBool(&cfg.Features.Convex, f.Convex)
		setBool(&cfg.Features.Payments, f.Payments)
		setBool(&cfg.Features.Monitoring, f.Monitoring)
	}
	if s := d.Services; s != nil {
		if s.Clerk != nil {
			if cfg.Services.Clerk == nil {
				cfg.Services.Clerk = &ClerkConfig{}
			}
			setBool(&cfg.Services.Clerk.Enabled, s.Clerk.Enabled)
			setString(&cfg.Services.Clerk.PublishableKey, s.Clerk.PublishableKey)
		}
		if s.Convex != nil {
			if cfg.Services.Convex == nil {
				cfg.Services.Convex = &ConvexConfig{}
			}
			setBool(&cfg.Services.Convex.Enabled, s.Convex.Enabled)
			setString(&cfg.Services.Convex.URL, s.Convex.URL)
			setString(&cfg.Services.Convex.Deployment, s.Convex.Deployment)
		}
		if s.RevenueCat != nil {
			if cfg.Services.RevenueCat == nil {
				cfg.Services.RevenueCat = &RevenueCatConfig{}
			}
			setBool(&cfg.Services.RevenueCat.Enabled, s.RevenueCat.Enabled)
			setString(&cfg.Services.RevenueCat.APIKey, s.RevenueCat.APIKey)
			setString(&cfg.Services.RevenueCat.EntitlementID, s.RevenueCat.EntitlementID)
		}
		if s.Sentry != nil {
			if cfg.Services.Sentry == nil {
				cfg.Services.Sentry = &SentryConfig{TracesSampleRate: defaultTracesSampleRate, Environment: EnvDevelopment}
			}
			setBool(&cfg.Services.Sentry.Enabled, s.Sentry.Enabled)
			setString(&cfg.Services.Sentry.DSN, s.Sentry.DSN)
			setString(&cfg.Services.Sentry.Environment, s.Sentry.Environment)
			if s.Sentry.TracesSampleRate != nil {
				cfg.Services.Sentry.TracesSampleRate = *s.Sentry.TracesSampleRate
			}
		}
	}
	if u := d.UI; u != nil {
		setBool(&cfg.UI.ShowAuth, u.ShowAuth)
		setBool(&cfg.UI.ShowDashboard, u.ShowDashboard)
		setBool(&cfg.UI.ShowPaywall, u.ShowPaywall)
		setBool(&cfg.UI.ShowSettings, u.ShowSettings)
	}
	if l := d.Logging; l != nil {
		setString(&cfg.Logging.Provider, l.Provider)
		setString(&cfg.Logging.Level, l.Level)
		setString(&cfg.Logging.Format, l.Format)
		setBool(&cfg.Logging.AddSource, l.AddSource)
		if l.Focus != nil {
			cfg.Logging.Focus = append([]string(nil), l.Focus...)
		}
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
