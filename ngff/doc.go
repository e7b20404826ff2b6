/*
	Package ngff provides types, constants and functions that have no other
	dependencies and can be used by all packages within this module: the
	error taxonomy for metadata and transform handling, non-fatal advisories,
	leveled logging, and keyword-based configuration.
*/
package ngff
