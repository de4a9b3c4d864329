// Package config loads togglreport settings.
//
// Settings live in ~/.config/togglreport/config.toml and may be overridden
// by TOGGLREPORT_* environment variables (TOGGLREPORT_USE_RELAY=true). A
// missing file is not an error; every key has a default. Save writes the
// current values back as TOML, which is what `togglreport config init` uses.
//
// Credentials can additionally be kept in an INI profile file (~/.togglrc):
//
//	[default]
//	token     = 0123456789abcdef
//	report_id = AbCdEf
//
// LoadProfile reads one section of it.
package config
