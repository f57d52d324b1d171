// Package fairness ranks candidate employees for a shift window by a
// single score shared across all three products: exponentially decayed
// historical load, plus debit accrued so far in the current run, minus
// an availability bonus. Ranking is total and reproducible: given the
// same ledger state and candidate set, the order never changes.
package fairness
