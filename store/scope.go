package store

import (
	"reflect"
	"sync"

	"github.com/on-the-ground/composable_go/internal/snapshot"
)

// Scope derives a store focused on part of parent.
//
// The scoped store holds no state of its own: State projects the parent
// state with toLocal, and Send embeds the action with toGlobal and sends it
// to the parent. Observers are notified when a parent notification changes
// the projected state. When GS neither implements Clone() GS nor is
// pointer-free, projections may share memory with the parent and every parent notification is passed on.
func Scope[GS, GA, LS, LA any](parent *Store[GS, GA], toLocal func(GS) LS, toGlobal func(LA) GA) *Store[LS, LA] {
	var (
		mu    sync.Mutex
		unsub []func()
		deep  = snapshot.Independent[GS]()
	)

	subscribe := func(fn func(LS)) func() {
		var (
			lastMu sync.Mutex
			last   = toLocal(parent.State())
		)
		detach := parent.Subscribe(func(gs GS) {
			local := toLocal(gs)

			lastMu.Lock()
			changed := !deep || !reflect.DeepEqual(last, local)
			last = local
			lastMu.Unlock()

			if changed {
				fn(local)
			}
		})

		mu.Lock()
		unsub = append(unsub, detach)
		mu.Unlock()
		return detach
	}

	return &Store[LS, LA]{
		state:     func() LS { return toLocal(parent.State()) },
		send:      func(a LA) { parent.Send(toGlobal(a)) },
		subscribe: subscribe,
		close: func() {
			mu.Lock()
			detach := unsub
			unsub = nil
			mu.Unlock()
			for _, d := range detach {
				d()
			}
		},
		inFlight: parent.InFlight,
	}
}
