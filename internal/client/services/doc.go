// Package services contains the typed consumers of the api client: one
// service per backend resource plus authentication. Services never build
// HTTP requests themselves; they describe queries and mutations and decode
// the results.
package services
