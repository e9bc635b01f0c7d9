// Package mainqueue marshals loader completions onto one designated
// goroutine, the way a UI toolkit requires updates on its main thread.
//
// Queue is a serial executor. Decorator[T] wraps any asynchronous operation
// and runs its completions on the queue; FeedLoader and ImageDataLoader are
// the concrete wrappers for the nowplaying loaders.
package mainqueue
