package dispatch

// Async runs an asynchronous multiversioned function. The variant is selected
// on the calling goroutine before anything is started; body then runs on its
// own goroutine with the selector and its result is delivered on the
// returned channel, which is closed afterwards.
func Async[F, R any](d *Dispatcher[F], body func(index int) R) <-chan R {
	idx := d.Index()
	out := make(chan R, 1)
	go func() {
		defer close(out)
		out <- body(idx)
	}()
	return out
}
