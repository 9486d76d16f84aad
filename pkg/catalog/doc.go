// Package catalog implements the entity lifecycle and referential-integrity
// core of a language-learning catalog: a Category → Topic → Content tree with
// per-content proficiency levels, free-text tags, and an optional audio asset
// held in a blob store.
//
// The Service orchestrates a Repository (row store) and a BlobStore (object
// store). Neither offers cross-call transactions, so ordering carries the
// integrity guarantees: cascades delete children before parents, audio
// attach uploads before referencing, and detach deletes the blob before
// clearing the reference. Cascades stop at the first error and are safe to
// retry.
//
// Repositories live in repo/ (memory, postgres) and blob stores in storage/
// (memory, fs, s3); config assembles a Service from configuration.
package catalog
