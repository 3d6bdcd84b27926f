// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Document: Read access to a structured document for flattening
//   - EditingSurface: Range replacement, selection and change notification
//   - GrammarChecker: Submits text to the analysis provider
//   - SuppressionStore: Suppression ledger persistence
//   - ConfigStore: Application configuration
//   - Clock: Timers for debounce and UI feedback delays
//   - Dispatcher: Posts callbacks onto the session's thread
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ResultCache: Caches provider results. Without it, every check hits the provider.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
