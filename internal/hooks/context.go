package hooks

import (
	"github.com/raphi011/folio/internal/scaffold"
)

// ContextFromSummary builds a Context for a freshly created project.
func ContextFromSummary(s *scaffold.Summary, trigger CommandType, env map[string]string) Context {
	return Context{
		Path:         s.Root,
		ID:           s.ID,
		Title:        s.Record.String("title"),
		Organization: organization(s.Record.String("organization"), s.Record.String("client")),
		Year:         s.Record.String("year"),
		Trigger:      string(trigger),
		Env:          env,
	}
}

// organization picks the 2.0.0 field, falling back to the 1.0.0 "client".
func organization(org, client string) string {
	if org != "" {
		return org
	}
	return client
}
