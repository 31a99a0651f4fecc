// Package cli constructs the branch-renamer command-line interface, wiring the
// Cobra command hierarchy, configuration loader, and structured logging
// primitives around the rename workflow.
package cli
