// Package migrations embeds the goose SQL migrations for both databases.
package migrations

import "embed"

// FS holds the core and insurance migration directories.
//
//go:embed core/*.sql insurance/*.sql
var FS embed.FS

const (
	// CoreDir holds the officer, civilian, vehicle and citation schema.
	CoreDir = "core"
	// InsuranceDir holds the insurance service schema.
	InsuranceDir = "insurance"
)
