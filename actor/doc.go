// Package actor is the runtime behind generated servify services.
//
// A service is split into a Server that owns its state and any number of
// Clients that reach it only by message. NewChannel connects them: the
// Receiver end is held by exactly one Server, the Sender end is shared by
// cloning. Every message carries a one-shot ReplySlot the Server fulfils
// after running the operation.
//
//	rx, client := counter.NewCounter(16)
//	srv := &counter.CounterServer{}
//	go srv.Listen(ctx, rx)
//	n, err := client.IncrementAndGet(ctx, 5)
//	client.Close()
//
// The Server processes one message at a time, so operation bodies touch
// state without locks.
package actor
