// Package output renders command results for the tscontainer CLI.
//
//   - formatter.go: Formatter interface and factory
//   - table.go: aligned FIELD/VALUE and row tables
//   - json.go: indented JSON
//   - yaml.go: YAML
//
// Tables are for people; json and yaml are for scripts.
package output
