// Package branches implements the translation branching feature.
//
// It provides spaces (the grouping boundary), branches (independently
// editable copy-on-write snapshots of a key/value set), translation key and
// value editing, and the HTTP surface for the diff/merge engine in
// core/diffmerge.
//
// # Store
//
// The Store type is the KeySet data access layer: it materializes a branch's
// full key/value state, performs transactional copy-on-write clones
// (including the creation snapshot used as the merge ancestor), and applies
// merge change sets atomically. It implements diffmerge.Store.
//
// # Components
//
//   - Service: orchestrates the store, the merge engine, and snapshot export.
//   - Handler: exposes HTTP endpoints for spaces, branches, diff, and merge.
//   - Loader: registers the feature with the application.
//
// # HTTP Endpoints
//
//   - POST   /spaces                        : Create a space with its default branch.
//   - GET    /spaces                        : List spaces.
//   - POST   /spaces/:id/branches           : Clone a new branch.
//   - GET    /spaces/:id/branches           : List branches.
//   - DELETE /branches/:id                  : Delete a branch.
//   - GET    /branches/:id/keys             : Full branch state.
//   - PUT    /branches/:id/keys/:key/:lang  : Set a translation value.
//   - DELETE /branches/:id/keys/:key        : Delete a key.
//   - GET    /branches/diff                 : Diff two branches.
//   - POST   /branches/merge                : Merge source into target.
//   - POST   /branches/:id/export           : Export a JSON snapshot to storage.
package branches
