// Package changelog defines the domain model for AI-generated changelog
// entries: commits as fetched from the remote provider, the batches they
// are partitioned into, generation drafts, persisted entries, and pipeline
// reports. It also owns the partitioning rules, the deterministic commit
// serialization sent to the generation service, and draft validation
// against the closed output contract.
package changelog
