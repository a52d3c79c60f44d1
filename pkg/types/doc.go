// Package types defines the Store interfaces, entity types, wire messages,
// and standard error values for the Locker service. Storage backends
// implement Store; the HTTP layer and the client SDK share the wire types.
package types
