// Package capture collects the images of one identification submission.
//
// An Aggregator holds at most MaxImages pending photographs, each tagged with
// the plant organ it depicts. Every image receives a sequence number the moment
// it is added, and Finalize returns the batch ordered by that number no matter
// when the asynchronous preview decode of each image finished. Previews are
// downscaled JPEG data URLs produced in background goroutines; callers read them
// through Preview or wait for all of them with WaitPreviews.
package capture
