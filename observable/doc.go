/*
Package observable provides the change-notification contracts used by
persisted values.

An Observable emits a "will change" notification before it mutates and a
"did change" notification afterwards. Publisher is a zero-value usable
implementation meant to be embedded:

	type Task struct {
	    observable.Publisher `json:"-" yaml:"-"`
	    Title string
	}

	func (t *Task) SetTitle(title string) {
	    t.Change(func() { t.Title = title })
	}

Aggregates enumerate their observable children explicitly through
ObservableChildren, so a persisted value can subscribe to a whole graph
without reflection. Types implementing Loader receive DidLoad once after
they have been decoded from storage.

List is an observable collection that is an Aggregate of its elements.
*/
package observable
