/*
Package persisted binds an in-memory value to a key in a repository.

A Value retrieves its key when constructed, keeps the initial value when
nothing is stored, and writes the value back whenever it changes:

	repo := persisted.Async(fileStore, 250*time.Millisecond)
	settings := persisted.New(ctx, Settings{Theme: "light"}, "settings", repo)
	defer settings.Close()

	settings.Set(Settings{Theme: "dark"})

With a synchronous repository the write happens inline. With an asynchronous
repository writes are debounced: every mutation cancels the store that is
still waiting out the delay and schedules a new one, so a burst of
mutations produces a single write of the last value. A store that has
already reached the backend always completes.

Retrieval and store failures never reach the caller of Set. They are
recorded in Status and LastError, and the in-memory value is kept.

Values that implement observable.Observable or observable.Aggregate are
watched: a "did change" anywhere in the graph schedules a store, and the
graph is walked again so new children are subscribed. Values loaded from
storage receive observable.Loader's DidLoad once the subscriptions exist.
*/
package persisted
