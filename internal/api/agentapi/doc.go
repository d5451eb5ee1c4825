// Package agentapi is the HTTP control surface of the eink-agent daemon.
//
// It exposes a loopback-only JSON API: POST /api/v1/heartbeat resets the
// watchdog, GET /api/v1/status reports the hardware and liveness snapshot,
// GET /healthz answers liveness probes. The transport only sees the Service
// interface, keeping it decoupled from the agent implementation.
package agentapi
