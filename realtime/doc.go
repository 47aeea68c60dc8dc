// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package realtime provides per-event change subscriptions.

A Hub keeps one set of subscribers per event id. The store publishes a
models.Change after every committed status flip or ballot, and the live
WebSocket handler forwards the subscriber's stream to the browser:

	sub, err := hub.Subscribe(ctx, eventID)
	if err != nil {
		return err
	}
	defer sub.Close()

	for change := range sub.Changes() {
		// ...
	}

Source and Subscription are the contracts consumed by the status watcher;
the HTTP client implements Source over the live endpoint so the same
watcher runs in-process or remotely.
*/
package realtime
