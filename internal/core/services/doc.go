// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The editor core lives here: Flatten and MapSpans translate between flat
// provider offsets and document positions, DecorationStore keeps the live
// error ranges valid across edits, AnalysisScheduler debounces and
// generation-gates provider calls, SuppressionLedger remembers ignored
// errors and InteractionController drives the tooltip. EditorSession wires
// them to an editing surface.
package services
