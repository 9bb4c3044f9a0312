package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-featuregate/internal/gate"
	"github.com/goliatone/go-featuregate/internal/runtimeconfig"
	"github.com/goliatone/go-featuregate/internal/tasks"
)

// FeatureRow is one line of the feature table.
type FeatureRow struct {
	Feature        runtimeconfig.Feature
	Enabled        bool
	Service        runtimeconfig.Service
	ServiceEnabled bool
	Usable         bool
}

// ServiceRow is one line of the service table. Parameters are masked.
type ServiceRow struct {
	Service    runtimeconfig.Service
	Configured bool
	Enabled    bool
	Parameters []Parameter
}

type Parameter struct {
	Name  string
	Value string
}

type SectionRow struct {
	Section runtimeconfig.Section
	Visible bool
}

// Report is a point-in-time summary of the registry and gate state.
type Report struct {
	Environment string
	RunID       string
	GeneratedAt time.Time
	Validation  gate.Result
	Features    []FeatureRow
	Services    []ServiceRow
	Sections    []SectionRow
	Tasks       *tasks.List
}

type Option func(*Report)

func WithRunID(id string) Option {
	return func(r *Report) { r.RunID = id }
}

func WithGeneratedAt(at time.Time) Option {
	return func(r *Report) { r.GeneratedAt = at }
}

// WithTasks adds the task list section.
func WithTasks(list tasks.List) Option {
	return func(r *Report) { r.Tasks = &list }
}

var allSections = []runtimeconfig.Section{
	runtimeconfig.SectionAuth,
	runtimeconfig.SectionDashboard,
	runtimeconfig.SectionPaywall,
	runtimeconfig.SectionSettings,
}

// Build snapshots g.
func Build(g *gate.Gate, opts ...Option) Report {
	cfg := g.Config()
	r := Report{
		Environment: cfg.Environment,
		GeneratedAt: time.Now().UTC(),
		Validation:  g.Validate(),
	}

	for _, feature := range runtimeconfig.AllFeatures {
		service, _ := runtimeconfig.PairedService(feature)
		r.Features = append(r.Features, FeatureRow{
			Feature:        feature,
			Enabled:        g.IsFeatureEnabled(feature),
			Service:        service,
			ServiceEnabled: g.IsServiceEnabled(service),
			Usable:         g.Usable(feature),
		})
	}

	for _, service := range runtimeconfig.AllServices {
		svc, ok := cfg.Services.Lookup(service)
		row := ServiceRow{Service: service, Configured: ok}
		if ok {
			row.Enabled = svc.IsEnabled()
			row.Parameters = parameters(svc)
		}
		r.Services = append(r.Services, row)
	}

	for _, section := range allSections {
		r.Sections = append(r.Sections, SectionRow{Section: section, Visible: g.IsSectionVisible(section)})
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&r)
		}
	}
	return r
}

func parameters(svc runtimeconfig.ServiceConfig) []Parameter {
	switch s := svc.(type) {
	case *runtimeconfig.ClerkConfig:
		return []Parameter{{"publishableKey", MaskSecret(s.PublishableKey)}}
	case *runtimeconfig.ConvexConfig:
		return []Parameter{{"url", MaskURL(s.URL)}, {"deployment", s.Deployment}}
	case *runtimeconfig.RevenueCatConfig:
		return []Parameter{{"apiKey", MaskSecret(s.APIKey)}, {"entitlementId", s.EntitlementID}}
	case *runtimeconfig.SentryConfig:
		return []Parameter{
			{"dsn", MaskURL(s.DSN)},
			{"tracesSampleRate", fmt.Sprintf("%g", s.TracesSampleRate)},
			{"environment", s.Environment},
		}
	default:
		return nil
	}
}

// Markdown renders the report as GitHub flavoured markdown.
func (r Report) Markdown() string {
	var b strings.Builder

	b.WriteString("# Feature gate status\n\n")
	fmt.Fprintf(&b, "- Environment: %s\n", orDash(r.Environment))
	if r.RunID != "" {
		fmt.Fprintf(&b, "- Run: %s\n", r.RunID)
	}
	if !r.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "- Generated: %s\n", r.GeneratedAt.Format(time.RFC3339))
	}
	if r.Validation.Valid {
		b.WriteString("- Validation: valid\n")
	} else {
		fmt.Fprintf(&b, "- Validation: invalid (%d)\n", len(r.Validation.Errors))
	}

	b.WriteString("\n## Features\n\n")
	b.WriteString("| Feature | Enabled | Service | Service enabled | Usable |\n")
	b.WriteString("| --- | --- | --- | --- | --- |\n")
	for _, row := range r.Features {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			row.Feature, yesNo(row.Enabled), row.Service, yesNo(row.ServiceEnabled), yesNo(row.Usable))
	}

	b.WriteString("\n## Services\n\n")
	b.WriteString("| Service | Enabled | Parameters |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, row := range r.Services {
		if !row.Configured {
			fmt.Fprintf(&b, "| %s | not configured | - |\n", row.Service)
			continue
		}
		params := make([]string, 0, len(row.Parameters))
		for _, p := range row.Parameters {
			params = append(params, fmt.Sprintf("%s=`%s`", p.Name, cell(orDash(p.Value))))
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", row.Service, yesNo(row.Enabled), strings.Join(params, ", "))
	}

	b.WriteString("\n## UI sections\n\n")
	b.WriteString("| Section | Visible |\n")
	b.WriteString("| --- | --- |\n")
	for _, row := range r.Sections {
		fmt.Fprintf(&b, "| %s | %s |\n", row.Section, yesNo(row.Visible))
	}

	if !r.Validation.Valid {
		b.WriteString("\n## Validation errors\n\n")
		for _, msg := range r.Validation.Errors {
			fmt.Fprintf(&b, "- %s\n", msg)
		}
	}

	if r.Tasks != nil {
		fmt.Fprintf(&b, "\n## Tasks (%s)\n\n", r.Tasks.Source)
		if len(r.Tasks.Tasks) == 0 {
			b.WriteString("No tasks yet.\n")
		}
		for _, task := range r.Tasks.Tasks {
			mark := " "
			if task.Completed {
				mark = "x"
			}
			fmt.Fprintf(&b, "- [%s] %s\n", mark, task.Text)
		}
	}

	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func orDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}

func cell(v string) string {
	return strings.ReplaceAll(v, "|", `\|`)
}
