// Package browser synchronizes a history engine with a native browser
// history stack.
//
// The central type is Synchronizer. Programmatic intents (Push,
// Replace, Jump, SetState, Reset, NavigateURL) flow engine-first: the
// gate may veto, the engine mutates, and only then is the native stack
// touched. Browser-initiated pops flow the other way: the browser has
// already moved when the event fires, so the synchronizer computes the
// direction, opens a history.Decision for the pop gate, and reconciles
// with an optimistic revert-then-commit protocol.
//
// Native abstracts the browser boundary. Memory is an in-process
// implementation used by tests and the simulator; package remote
// provides one backed by a live websocket client.
//
//	native := browser.NewMemory("/")
//	engine := history.NewEngine(history.Entry{Action: home, Location: loc})
//	sync := browser.NewSynchronizer(native, engine, table, opts,
//	    browser.WithPopGate(confirmLeave),
//	    browser.WithActionSink(store.Dispatch),
//	)
//	defer sync.Close()
//
//	sync.Push(ctx, route.Action{Type: "USER", Params: route.Params{"id": 7}})
package browser
