// Package rworker runs jobs on goroutines limited by a shared rate
// channel; job errors go to a non-blocking error channel.
package rworker

import "sync"

func Job(wg *sync.WaitGroup, fn func() error, rate chan struct{}, errCh chan<- error) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		rate <- struct{}{}
		if err := fn(); err != nil {
			select {
			case errCh <- err:
			default:
			}
		}
		<-rate
	}()
}
