// Package cli implements the command-line interface for rec-dropins.
//
// The cli package provides the Cobra-based CLI with subcommands for refreshing
// the schedule database from both collection strategies, listing stored
// records with filters, exporting iCalendar files, and inspecting the
// effective configuration. Settings are resolved through Viper from flags,
// RECDROPINS_* environment variables, an optional YAML config file, and
// built-in defaults, in that order.
package cli
