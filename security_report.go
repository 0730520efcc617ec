package jokauth

import "github.com/jokio/jokauth/internal/security"

// SecurityReport describes the verification posture of a Verifier.
type SecurityReport struct {
	SigningAlgorithm     string
	KeyKind              string
	SeedRetained         bool
	MarkerField          string
	MarkerPolicy         string
	HeaderAuthenticated  bool
	GlobalAuthentication bool
	BindPredicate        string
	AuditEnabled         bool
	AuditDropIfFull      bool
	MetricsEnabled       bool
	Warnings             []string
}

// SecurityReport summarizes the Verifier's settings and lists posture
// warnings. A nil or unbuilt Verifier yields the zero report.
func (v *Verifier) SecurityReport() SecurityReport {
	if v == nil || v.key == nil {
		return SecurityReport{}
	}

	r := security.BuildReport(security.ReportInput{
		KeyKind:              v.key.Kind(),
		MarkerField:          v.config.Claims.MarkerField,
		MarkerPolicy:         v.config.Claims.MarkerPolicy.String(),
		GlobalAuthentication: v.config.Authorization.GlobalAuthentication,
		BindPredicate:        v.config.Authorization.BindPredicate.String(),
		AuditEnabled:         v.config.Audit.Enabled,
		AuditDropIfFull:      v.config.Audit.DropIfFull,
		MetricsEnabled:       v.config.Metrics.Enabled,
	})

	return SecurityReport{
		SigningAlgorithm:     r.SigningAlgorithm,
		KeyKind:              r.KeyKind,
		SeedRetained:         r.SeedRetained,
		MarkerField:          r.MarkerField,
		MarkerPolicy:         r.MarkerPolicy,
		HeaderAuthenticated:  r.HeaderAuthenticated,
		GlobalAuthentication: r.GlobalAuthentication,
		BindPredicate:        r.BindPredicate,
		AuditEnabled:         r.AuditEnabled,
		AuditDropIfFull:      r.AuditDropIfFull,
		MetricsEnabled:       r.MetricsEnabled,
		Warnings:             r.Warnings,
	}
}
