// Package pg is the PostgreSQL adapter for internal/store's ports,
// grounded on _examples/Boreiy-Sttbot/internal/platform/pg (pool, tx,
// advisory-lock helpers, kept in internal/platform/pg) and on the
// query/scan style of other_examples' dist-job-scheduler and
// cmlabs-hris Postgres repositories.
package pg
