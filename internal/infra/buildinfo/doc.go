// Package buildinfo exposes build information for tscontainer binaries.
//
// Version, Commit and BuildTime are injected via ldflags:
//
//	go build -ldflags "-X github.com/xuleilx/tscontainer/internal/infra/buildinfo.Version=v1.0.0"
//
// GoVersion defaults to the toolchain that compiled the binary.
package buildinfo
