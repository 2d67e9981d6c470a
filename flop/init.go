package flop

import (
	"sync"

	"github.com/notargets/flop/op2"
)

var (
	initOnce sync.Once
	rt       *op2.Runtime
	initErr  error
)

// Init starts the op2 runtime. Only the first call creates it; later calls
// return the same runtime and ignore cfg.
func Init(cfg op2.Config) (*op2.Runtime, error) {
	initOnce.Do(func() {
		rt, initErr = op2.NewRuntime(cfg)
	})
	return rt, initErr
}

// Runtime returns the runtime started by Init, nil before
func Runtime() *op2.Runtime { return rt }
