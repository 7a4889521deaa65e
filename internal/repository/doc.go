// Package repository provides file-based storage for named query-model
// documents.
//
// It is the persistence collaborator around the generation core: the
// core packages (model, joingraph, sqlgen) never import it. Each
// document holds one or more named query models and is stored as a
// single YAML file in the repository directory. Writes are guarded by
// an overwrite flag, every successful store assigns a fresh revision,
// and removing the last model of a document deletes its file.
package repository
