package panicerr

// Recover runs f in a new goroutine wrapped in defer logic to recover any
// halts, abnormal exits, or panics as non-nil error returns.
//
// A halt raised by Halt is returned as its bare error; any other panic is
// returned as an error that retains the panic value and stack trace.
func Recover(name string, f func() error) error {
	errch := make(chan error, 1)
	go func() {
		defer close(errch)
		defer recoverExitError(name, errch)
		defer recoverPanicError(name, errch)
		errch <- f()
	}()
	return <-errch
}
