// Package observability provides event logging, metrics calculation, and
// schedule alerting for Gantt Maestro. Events are persisted as JSON Lines;
// metrics are derived on demand from the event log, and alerts from the
// current project schedules.
package observability
