// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Nexus chat assistant, config live reload, SVG export
// 0.2.0 - Conjunction/opposition scanning, planet metadata cache
// 0.1.0 - Initial release: Kepler ephemeris, TUI orrery, headless modes
