// Package config loads and validates tsarchiver configuration from TOML.
//
// Configuration covers the scan behavior (site base URL, per-show page
// windows, request timeout), subtitle conversion (exclusion list), and
// logging. The archive directory itself is not configuration; it is a
// positional argument so one install can serve multiple archive roots.
package config
