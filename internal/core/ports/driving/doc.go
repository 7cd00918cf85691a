// Package driving defines interfaces that external actors (CLI, UI)
// use to interact with core services. These are the "driving" ports in
// hexagonal architecture terminology - they drive the application.
//
// Implementations of these interfaces live in internal/core/services.
//
// The upload and chat surfaces are deliberately thin: they call these
// interfaces and render results, and the core never formats UI strings
// itself.
package driving
