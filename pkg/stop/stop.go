// Package stop implements a pattern for shutting down a group of processes.
package stop

import (
	"sync"
)

// Channel is used to return zero or more errors asynchronously. Call Done()
// once to pass errors to the Channel.
type Channel chan []error

// Result is a receive-only version of Channel. Call Wait() once to receive any
// returned errors.
type Result <-chan []error

// Done adds zero or more errors to the Channel and closes it, indicating the
// caller has finished stopping. It should be called exactly once.
func (ch Channel) Done(errs ...error) {
	var nonNil []error
	for _, err := range errs {
		if err != nil {
			nonNil = append(nonNil, err)
		}
	}
	if len(nonNil) > 0 {
		ch <- nonNil
	}
	close(ch)
}

// Result converts a Channel to a Result.
func (ch Channel) Result() Result {
	return Result((chan []error)(ch))
}

// Wait blocks until Done() is called on the underlying Channel and returns any
// errors. It should be called exactly once.
func (r Result) Wait() []error {
	return <-r
}

// Stopper is an interface that allows a clean shutdown.
type Stopper interface {
	// Stop returns immediately and performs the shutdown in the background.
	// The Result either yields the errors that occurred or is closed.
	Stop() Result
}

// Func is a function that can be used to provide a clean shutdown.
type Func func() Result

// Group is a collection of Stoppers that can be stopped all at once.
type Group struct {
	sync.Mutex
	stoppables []Func
}

// NewGroup allocates a new Group.
func NewGroup() *Group {
	return &Group{}
}

// Add appends a Stopper to the Group.
func (g *Group) Add(s Stopper) {
	g.AddFunc(s.Stop)
}

// AddFunc appends a Func to the Group.
func (g *Group) AddFunc(f Func) {
	g.Lock()
	defer g.Unlock()

	g.stoppables = append(g.stoppables, f)
}

// Stop stops all members of the Group concurrently. The Result yields the
// errors of every member.
func (g *Group) Stop() Result {
	g.Lock()
	defer g.Unlock()

	waitFor := make([]Result, 0, len(g.stoppables))
	for _, toStop := range g.stoppables {
		r := toStop()
		if r == nil {
			panic("stop: received a nil Result from Stop")
		}
		waitFor = append(waitFor, r)
	}

	whenDone := make(Channel)
	go func() {
		var errs []error
		for _, r := range waitFor {
			errs = append(errs, r.Wait()...)
		}
		whenDone.Done(errs...)
	}()

	return whenDone.Result()
}
