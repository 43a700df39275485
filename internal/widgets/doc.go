// Package widgets implements the leaf widgets of the overlay tree and
// the construction pipeline that turns a declarative config tree into
// live runtime widgets.
//
// Leaves come in two shapes: static ones computed purely from the
// current time (clock, date, calendar) plus the launcher, and bar gauges
// backed by an OS service (battery via UPower, backlight via sysfs,
// audio via a mixer backend). Gauge construction probes its backing
// service synchronously; a failed probe prunes the node and never aborts
// the process.
package widgets
