// Package orchestrator drives the per-product selector loop described
// in the scheduling design: for each planning unit, in chronological
// order, rank eligible candidates by fairness and assign the first one
// that clears the constraint evaluator for the whole unit. Products
// within a team are planned sequentially so later products observe
// earlier products' plan debit and assignments.
package orchestrator
