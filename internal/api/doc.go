// Package api serves the campus-api HTTP resources.
//
// Each entity is described by a Kind (URL prefix, storage schema, and a
// decoder for create parameters) and served by a Resource over any
// store.Repository:
//
//	GET    {prefix}/all           USER   every record, ordered by id
//	GET    {prefix}?id=N          USER   one record or 404
//	POST   {prefix}/post?<fields> ADMIN  create from query parameters
//	PUT    {prefix}?id=N          ADMIN  full replacement from a JSON body
//	DELETE {prefix}?id=N          ADMIN  remove, answer with a message
//
// Handlers return errors; writeError maps them to responses:
//
//	*NotFoundError           404 EntityNotFoundException
//	*ValidationError         400 ValidationException
//	*ConflictError           409 ConflictException
//	*store.PersistenceError  500 RuntimeException "Failed to <op> <Entity>"
//
// Create honors an optional Idempotency-Key header: a retry with the same key
// from the same principal returns the record made by the first request.
package api
