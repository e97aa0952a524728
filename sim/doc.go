// Package sim provides the simulation core of a production/factory
// model: production lines pairing a recipe with a pool of producers, a
// shared item store with per-item capacity bounds, and a scheduler that
// advances the simulation in unit time steps.
//
// # Reading Guide
//
// Start with these three files to understand the kernel:
//   - store.go: ItemStore capacity/stored bookkeeping and clamping
//   - requests.go: per-item demand collection and its partition into
//     simple / satisfiable-mixed / unsatisfiable-mixed requests
//   - scheduler.go: Update, the step loop that activates lines, rations
//     scarce ingredients, advances progress, and deposits results
//
// # Architecture
//
// The core is generic over a caller-supplied item type (comparable). All
// state lives on the ProductionLine and Store values the caller passes
// in; Update holds nothing between invocations. Everything is
// single-threaded and deterministic: request maps iterate in insertion
// order, lines in caller order.
//
// The Store interface has two variants: ItemStore clamps silently,
// StrictItemStore (strict_store.go) turns clamping into hard failures
// and is the variant to prefer while debugging.
//
// scenario.go loads the YAML scenario model used by the CLI driver in
// cmd/.
package sim
