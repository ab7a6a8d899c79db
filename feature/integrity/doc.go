// Package integrity implements database schema verification.
//
// It checks that every table the translation feature relies on exists with
// the expected columns, using the schema inspector in core/database. This
// catches partially applied migrations before they surface as opaque query
// errors in the diff/merge path.
//
// # HTTP Endpoints
//
//   - GET /integrity : Run the schema check and return per-table reports.
package integrity
