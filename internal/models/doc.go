// Package models defines the core domain models for sup.
//
// # Models
//
//   - Account: a registered account (id, username, password hash)
//   - Message: a directed, immutable message between two accounts
//
// # Design Principles
//
// 1. **No live references**: Message.From/To are account ID strings, not
// pointers. Accounts can be deleted while messages referencing them live
// on, so reads expand IDs into account records explicitly.
//
// 2. **Hashes never leave the model layer**: Account.PasswordHash carries
// `json:"-"` so no response can include it by accident.
//
// # Known invariant gap
//
// Account.Username is intended to be unique but no constraint enforces it.
// Two accounts can share a username, in which case authentication resolves
// whichever row the store returns first. This mirrors the behavior of the
// system this one replaces and is deliberately left unenforced.
package models
