// Package confloader provides the configuration loading mechanism for
// tscontainer tools.
//
// It layers koanf providers in increasing priority:
//
//  1. Defaults supplied by the caller
//  2. A YAML configuration file
//  3. Environment variables (TSCONTAINER_ prefix)
//  4. Explicit overrides, usually parsed command-line flags
//
// A Watcher built on fsnotify reports changes to the configuration file so
// long-running commands can re-read it.
package confloader
