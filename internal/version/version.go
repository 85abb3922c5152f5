package version

// Version is the semantic version of this build. Release builds override it
// via -ldflags.
var Version = "0.1.0-dev"
