// Package version provides the lidens tool version.
package version

// Version is the lidens tool version.
// Can be overridden at build time with:
//
//	go build -ldflags "-X github.com/impresso-project/lid-ensemble-go/pkg/version.Version=2.0.1"
var Version = "dev"
