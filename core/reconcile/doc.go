// Package reconcile tracks external collections over time with the join engine.
//
// A Source loads the current version of a collection (a storage listing, a database
// table, ...). A Tracker owns one join.Join per source and turns every Sync into a
// Report that lists which identities entered, were updated, changed, or exited since
// the previous sync.
//
// # Architecture
//
// 1. Source: model-specific loading, implemented by feature packages.
//
// 2. Tracker: loads the source, binds the items under a mutex, and builds the report.
//    Concurrent Sync calls for the same tracker share one load through singleflight.
//
// 3. Registry: named trackers, with SyncAll reconciling every source concurrently.
//
// # Usage Example
//
//	tracker := reconcile.NewTracker(source, join.Field[string, Object]("Key"), logger)
//	report, err := tracker.Sync(ctx)
//
//	registry := reconcile.NewRegistry()
//	_ = registry.Register(tracker)
//	reports, err := registry.SyncAll(ctx)
//
//	// Or keep a source reconciled in the background
//	err = reconcile.Poll(ctx, tracker, 30*time.Second, logger, printReport)
package reconcile
