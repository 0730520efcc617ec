package security

type Report struct {
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

type ReportInput struct {
	KeyKind              string
	MarkerField          string
	MarkerPolicy         string
	GlobalAuthentication bool
	BindPredicate        string
	AuditEnabled         bool
	AuditDropIfFull      bool
	MetricsEnabled       bool
}

func BuildReport(input ReportInput) Report {
	var warnings []string
	if input.KeyKind != "account" {
		warnings = append(warnings, "verification key is not an account key")
	}
	if input.MarkerPolicy == "truthy" {
		warnings = append(warnings, "marker policy accepts any truthy value, including empty objects")
	}
	if input.AuditEnabled && input.AuditDropIfFull {
		warnings = append(warnings, "audit events are dropped when the queue is full")
	}

	return Report{
		SigningAlgorithm:     "ed25519-nkey",
		KeyKind:              input.KeyKind,
		SeedRetained:         false,
		MarkerField:          input.MarkerField,
		MarkerPolicy:         input.MarkerPolicy,
		HeaderAuthenticated:  false,
		GlobalAuthentication: input.GlobalAuthentication,
		BindPredicate:        input.BindPredicate,
		AuditEnabled:         input.AuditEnabled,
		AuditDropIfFull:      input.AuditDropIfFull,
		MetricsEnabled:       input.MetricsEnabled,
		Warnings:             warnings,
	}
}
