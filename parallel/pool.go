// Package parallel fans batch items out to a fixed set of goroutines.
package parallel

import (
	"runtime"
	"sync"
)

type (
	WorkerFunc func(func())
	WaitFunc   func(done bool)
	CancelFunc func()
)

// Pool runs work handed to Do. With a single worker Do runs inline and Wait
// returns at once. Wait(true) closes the pool; Do must not be called after.
type Pool struct {
	Workers int
	Do      WorkerFunc
	Wait    WaitFunc
	Cancel  CancelFunc

	wg   sync.WaitGroup
	work chan func()
}

// Start launches numWorkers goroutines, or GOMAXPROCS when numWorkers < 1.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		Workers: numWorkers,
		Do:      func(f func()) { f() },
		Wait:    func(bool) {},
		Cancel:  func() {},
	}
	if numWorkers == 1 {
		return p
	}

	p.work = make(chan func(), numWorkers)
	for range numWorkers {
		p.wg.Go(p.run)
	}
	p.Do = p.do
	p.Wait = p.wait
	p.Cancel = sync.OnceFunc(func() { close(p.work) })
	return p
}

func (p *Pool) run() {
	for f := range p.work {
		f()
	}
}

func (p *Pool) do(f func()) {
	p.work <- f
}

func (p *Pool) wait(done bool) {
	if done {
		p.Cancel()
	}
	p.wg.Wait()
}
