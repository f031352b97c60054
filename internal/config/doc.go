// Package config loads, validates, and defaults MechanicFlow configuration.
//
// Configuration lives in a TOML file (default ~/.config/mechanicflow/
// config.toml). All path values accept a leading ~ and are expanded to
// absolute paths during Load. EnsureDirectories creates the base client
// directory, the trash folder, and the data and log directories so later
// operations can assume they exist.
package config
