// Package version carries the build and protocol identity of the server.
package version

// Version is stamped by the release build.
var Version = "dev"

// ProtocolVersion is the MCP revision this server speaks.
const ProtocolVersion = "2024-11-05"
