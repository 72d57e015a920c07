// Package models defines the records held by the development backend.
// JSON tags follow the wire format the admin client expects.
package models
