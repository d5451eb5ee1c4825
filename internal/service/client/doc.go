// Package client is a small HTTP client for the eink-agent control API,
// used by the einkctl agent subcommands to heartbeat the daemon and read
// its status snapshot. Calls carry a default timeout.
package client
