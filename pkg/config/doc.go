// Package config loads magicmount settings with koanf: embedded TOML
// defaults, then an optional config file, then MAGICMOUNT_*
// environment overrides (double underscore as key separator).
package config
