package dug

// Version is the module's release version, set by -ldflags at build time
// in release builds.
var Version = "0.1.0-dev"
