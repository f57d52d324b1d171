// Package constraint decides whether a candidate employee may be
// assigned a shift window: availability, skills, leave, double
// assignment, rest period and consecutive-week caps. Evaluation is
// pure and read-only; it never mutates the plan, it only classifies a
// candidate as eligible, eligible-with-a-warning, or ineligible.
package constraint
