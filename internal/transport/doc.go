// Package transport delivers snapshots from the backend to a Sink.
//
// Two transports exist. Poller fetches on a fixed cadence. Streamer holds a
// websocket subscription and treats a missing heartbeat as a dead connection.
// Both retry transport failures with capped exponential backoff and start
// every (re)connection with a full snapshot. An error returned by the Sink is
// not a transport failure: it ends Run and is returned to the caller.
package transport
