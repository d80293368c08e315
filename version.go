package notekeep

// Version is the release of the library and CLI. Release builds override it
// with -ldflags "-X github.com/aretw0/notekeep.Version=...".
var Version = "0.1.0-dev"
