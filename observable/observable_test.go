/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package observable_test

import (
	"testing"

	. "github.com/onsi/gomega"
	"github.com/suparena/persist/codec"
	"github.com/suparena/persist/observable"
)

type task struct {
	observable.Publisher `json:"-" yaml:"-"`
	Title                string `json:"title" yaml:"title"`
}

func (t *task) SetTitle(title string) {
	t.Change(func() { t.Title = title })
}

func TestPublisher_ChangeOrder(t *testing.T) {
	g := NewWithT(t)
	var p observable.Publisher
	var events []string

	p.ObserveWillChange(func() { events = append(events, "will") })
	p.ObserveDidChange(func() { events = append(events, "did") })
	p.Change(func() { events = append(events, "mutate") })

	g.Expect(events).To(Equal([]string{"will", "mutate", "did"}))
}

func TestPublisher_Cancel(t *testing.T) {
	g := NewWithT(t)
	var p observable.Publisher
	calls := 0

	cancel := p.ObserveDidChange(func() { calls++ })
	g.Expect(p.Subscribers()).To(Equal(1))

	p.DidChange()
	cancel()
	cancel()
	p.DidChange()

	g.Expect(calls).To(Equal(1))
	g.Expect(p.Subscribers()).To(Equal(0))
}

func TestPublisher_CancelDuringDispatch(t *testing.T) {
	g := NewWithT(t)
	var p observable.Publisher
	first, second := 0, 0

	var cancelSecond observable.Cancel
	p.ObserveDidChange(func() {
		first++
		cancelSecond()
	})
	cancelSecond = p.ObserveDidChange(func() { second++ })

	p.DidChange()
	p.DidChange()

	g.Expect(first).To(Equal(2))
	// The snapshot taken for the first dispatch still includes the second handler.
	g.Expect(second).To(Equal(1))
}

func TestPublisher_SubscribeDuringDispatch(t *testing.T) {
	g := NewWithT(t)
	var p observable.Publisher
	late := 0

	p.ObserveDidChange(func() {
		p.ObserveDidChange(func() { late++ })
	})
	p.DidChange()

	g.Expect(late).To(Equal(0))
}

func TestList_Mutations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(l *observable.List[string])
		want   []string
	}{
		{"Append", func(l *observable.List[string]) { l.Append("c", "d") }, []string{"a", "b", "c", "d"}},
		{"InsertFront", func(l *observable.List[string]) { l.Insert(0, "z") }, []string{"z", "a", "b"}},
		{"InsertEnd", func(l *observable.List[string]) { l.Insert(2, "z") }, []string{"a", "b", "z"}},
		{"Remove", func(l *observable.List[string]) { l.Remove(0) }, []string{"b"}},
		{"Set", func(l *observable.List[string]) { l.Set(1, "y") }, []string{"a", "y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			l := observable.NewList("a", "b")
			will, did := 0, 0
			l.ObserveWillChange(func() {
				will++
				g.Expect(did).To(Equal(0))
			})
			l.ObserveDidChange(func() { did++ })

			tt.mutate(l)

			g.Expect(l.Items()).To(Equal(tt.want))
			g.Expect(will).To(Equal(1))
			g.Expect(did).To(Equal(1))
		})
	}
}

func TestList_IndexOutOfRangePanics(t *testing.T) {
	g := NewWithT(t)
	l := observable.NewList(1, 2)
	notified := false
	l.ObserveWillChange(func() { notified = true })

	g.Expect(func() { l.Set(2, 3) }).To(Panic())
	g.Expect(func() { l.Remove(-1) }).To(Panic())
	g.Expect(func() { l.Insert(3, 0) }).To(Panic())
	g.Expect(notified).To(BeFalse())
}

func TestList_ObservableChildren(t *testing.T) {
	g := NewWithT(t)
	first, second := &task{Title: "one"}, &task{Title: "two"}
	l := observable.NewList(first, second)

	children := l.ObservableChildren()
	g.Expect(children).To(HaveLen(2))
	g.Expect(children[0]).To(BeIdenticalTo(first))
	_, ok := children[1].(observable.Observable)
	g.Expect(ok).To(BeTrue())
}

func TestList_Encoding(t *testing.T) {
	for _, c := range []codec.Codec{codec.JSON(), codec.YAML()} {
		t.Run(c.Name(), func(t *testing.T) {
			g := NewWithT(t)
			l := observable.NewList(&task{Title: "write tests"}, &task{Title: "ship"})

			data, err := c.Marshal(l)
			g.Expect(err).NotTo(HaveOccurred())

			var decoded *observable.List[*task]
			g.Expect(c.Unmarshal(data, &decoded)).To(Succeed())
			g.Expect(decoded.Len()).To(Equal(2))
			g.Expect(decoded.At(1).Title).To(Equal("ship"))
		})
	}

	t.Run("EmptyIsArray", func(t *testing.T) {
		g := NewWithT(t)
		data, err := codec.JSON().Marshal(observable.NewList[int]())
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(string(data)).To(Equal("[]"))
	})
}
