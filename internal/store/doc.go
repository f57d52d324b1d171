// Package store defines the read/write ports the scheduling engine
// consumes from its data layer: a TeamReader for the batch load at a
// run's initial suspension point, and a PlanWriter for the apply
// transaction at its final one. internal/store/pg and
// internal/store/memory are the two adapters implementing both.
package store
