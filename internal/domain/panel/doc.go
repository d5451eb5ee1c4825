// Package panel holds the domain model for the dual-display hardware:
// connected displays with their geometry, and touch devices grouped by the
// surface (primary OLED or secondary e-ink) they are routed to.
package panel
