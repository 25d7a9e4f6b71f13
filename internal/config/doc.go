// Package config resolves hailstack configuration from two sources:
//
//   - The database settings, read from the DB_HOST, DB_PORT, DB_NAME,
//     DB_USER and DB_PASS environment variables with local-dev defaults.
//     Every subcommand resolves the same struct, so the launcher, the
//     workers and the simulators always agree on the connection target.
//   - The stack manifest, a YAML or JSONC file naming the application
//     processes that `hailstack up` starts.
//
// The database values are deliberately not validated here: they are
// opaque pass-through configuration for the launched processes.
package config
