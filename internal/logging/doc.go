// Package logging builds slog loggers for tsarchiver.
//
// Two output formats are supported: a human-oriented console format used by
// the CLI tools and a JSON format for machine consumption. Helpers provide
// typed attribute constructors and component-scoped child loggers.
package logging
