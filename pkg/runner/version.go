package runner

// version is the CLI's own release identifier, independent of any source's
// wire-protocol version.
const version = "1.0.0"
