package kiln

// Version is the release version stamped into the CLI.
const Version = "0.2.0"
