// Package pipeline chains the per-review stages: normalisation, metadata
// replacement, segmentation, entity and coreference integration,
// reconstruction, rating tagging and polarity scoring.
//
// Models holds the shared collaborators and is read-only after
// construction, so one Models value serves any number of concurrent
// reviews. Each call to Process or Analyze owns all of its intermediate
// state.
package pipeline
