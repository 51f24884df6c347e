// Package core defines the shared language of the LeapCalc system.
//
// This package contains:
//   - Domain entities (Calculation, HistoryFilter)
//   - Service interfaces (Store)
//
// pkg/core imports only the standard library. All other packages depend on
// core, not the reverse.
package core
