package pointer

import (
	"testing"

	gohook "github.com/robotn/gohook"
	"github.com/stretchr/testify/assert"
)

func TestFeedDeliversInOrder(t *testing.T) {
	f := NewFeed()
	var got []string
	f.Subscribe(func(ev Event) { got = append(got, "a") })
	f.Subscribe(func(ev Event) { got = append(got, "b") })

	f.Publish(Event{X: 1, Y: 2})
	f.Publish(Event{X: 3, Y: 4})
	assert.Equal(t, []string{"a", "b", "a", "b"}, got)
}

func TestFeedUnsubscribe(t *testing.T) {
	f := NewFeed()
	var n int
	unsub := f.Subscribe(func(Event) { n++ })
	f.Publish(Event{})
	unsub()
	unsub()
	f.Publish(Event{})
	assert.Equal(t, 1, n)
}

func TestFeedHandlerMayUnsubscribeItself(t *testing.T) {
	f := NewFeed()
	var n int
	var unsub func()
	unsub = f.Subscribe(func(Event) {
		n++
		unsub()
	})
	f.Publish(Event{})
	f.Publish(Event{})
	assert.Equal(t, 1, n)
}

func TestHookDispatch(t *testing.T) {
	s := NewHookSource()
	var moves []Event
	var buttons []ButtonEvent
	var keys []KeyEvent
	s.Subscribe(func(ev Event) { moves = append(moves, ev) })
	s.OnButton(func(ev ButtonEvent) { buttons = append(buttons, ev) })
	s.OnKey(func(ev KeyEvent) { keys = append(keys, ev) })

	s.dispatch(gohook.Event{Kind: gohook.MouseMove, X: 10, Y: -4})
	s.dispatch(gohook.Event{Kind: gohook.MouseHold, Button: 1, X: 10, Y: 20})
	s.dispatch(gohook.Event{Kind: gohook.MouseDrag, X: 30, Y: 40})
	s.dispatch(gohook.Event{Kind: gohook.MouseUp, Button: 1, X: 31, Y: 41})
	s.dispatch(gohook.Event{Kind: gohook.MouseDown, Button: 1, X: 31, Y: 41})
	s.dispatch(gohook.Event{Kind: gohook.KeyDown, Rawcode: 27})
	s.dispatch(gohook.Event{Kind: gohook.KeyUp, Rawcode: 27})

	assert.Equal(t, []Event{{X: 10, Y: -4}, {X: 30, Y: 40}}, moves)
	assert.Equal(t, []ButtonEvent{
		{Event: Event{X: 10, Y: 20}, Button: 1, Pressed: true},
		{Event: Event{X: 31, Y: 41}, Button: 1, Pressed: false},
	}, buttons)
	assert.Equal(t, []KeyEvent{{Rawcode: 27, Down: true}, {Rawcode: 27, Down: false}}, keys)
}
