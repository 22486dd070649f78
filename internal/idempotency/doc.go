// Package idempotency remembers which record a create request produced, keyed
// by the caller's Idempotency-Key header.
//
// Keys are scoped with Key(principalID, route, clientKey). A create handler
// calls Lookup first; on a miss it calls Reserve, runs the insert, and then
// Remember (success) or Release (failure). A second request arriving while the
// first is still running sees Reserve return false.
//
// Entries expire after the configured TTL and the oldest entry is evicted when
// the cache is full. Call Close to stop the background cleanup goroutine.
package idempotency
