// Package window turns a (product, horizon) pair into the canonical,
// employee-independent sequence of shift windows that product requires.
// Generation is deterministic and pure: given the same inputs it always
// produces the same planning units, and it performs no I/O.
package window
