// Package preprocess runs the pipeline over every review waiting in the
// store.
//
// A run normalises all pending reviews and saves their normalized text,
// then groups reviews by work so each work's metadata is resolved once,
// and processes reviews concurrently with a bounded worker count. A
// review's failure is logged, recorded on the review and counted; it never
// aborts the run. A file lock keeps two runs from overlapping, whether they
// come from the CLI, the API or the daemon.
package preprocess
