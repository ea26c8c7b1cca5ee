// Package utils holds small shared helpers that don't warrant their own
// package: display string trimming and build-time version metadata.
package utils

// Build metadata, overridden at link time via -ldflags.
var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)
