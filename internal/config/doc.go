// Package config defines the settings of the persistence service and provides
// helpers to load, validate and save them in YAML format.
//
// It also resolves the directory holding item files from an explicit root,
// the user data directory (config or SMARTHOME_USERDATA, optionally read from
// a dotenv file) or a relative fallback.
package config
