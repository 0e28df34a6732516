// Package config loads the immutable runtime configuration for dbdock.
//
// Configuration comes from three layers, lowest precedence first:
//   - built-in defaults (Defaults)
//   - an optional JSONC settings file, ".dbdock.json" by default, parsed with
//     github.com/tidwall/jsonc so it may carry comments and trailing commas
//   - command-line flags, merged by the cli package
//
// The secrets file (".env" by default) is parsed with
// github.com/subosito/gotenv and must define MYSQL_ROOT_PASSWORD. A missing
// secrets file and a missing credential are distinct failure kinds.
package config
