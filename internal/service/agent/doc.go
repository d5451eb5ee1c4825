// Package agent is the eink-agent daemon core.
//
// The agent arms a watchdog against the configured heartbeat deadline and
// serves the loopback control API. As long as heartbeats arrive the
// hardware is considered supervised; when they stop, the safety action
// routes touch away from the e-ink surface, parks every output except the
// primary, optionally powers the machine off, and stops the agent.
package agent
