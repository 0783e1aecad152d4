// Package catalog holds the reviewed-work records the metadata resolver
// draws on, together with the import-time cleanup that makes them
// searchable: credited-name decomposition, character-name cleanup,
// subtitle derivation, ambiguity flags and the common-name denylist.
package catalog
