// Package command defines the tscontainer command line using urfave/cli/v2:
//
//   - root.go: App, global flags, configuration and logger setup
//   - stress.go: concurrent insert workload with verification
//   - soak.go: rate-limited mixed workload with a metrics endpoint
//   - snapshot.go: Badger save and restore of an ordered container
//   - config.go: show and validate the effective configuration
//   - version.go: build information
//
// Every command merges its flags over the loaded configuration, verifies
// it, runs, and renders its result with the selected output format.
package command
