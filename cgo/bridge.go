// Command bridge builds a C shared library that lets a game host query
// trained evaluators:
//
//	go build -buildmode=c-shared -o libthirtyone.so ./cgo
package main

/*
#include <stdint.h>
*/
import "C"
import (
	"sync"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/signalnine/thirtyone/engine"
	"github.com/signalnine/thirtyone/network"
	"github.com/signalnine/thirtyone/simulation"
	"github.com/signalnine/thirtyone/store"
)

// models holds the networks loaded by the host, keyed by handle.
var models = struct {
	sync.Mutex
	next uint64
	nets map[uint64]*network.Network
}{nets: make(map[uint64]*network.Network)}

func open(path string) (uint64, error) {
	net, hdr, err := store.ReadModel(path)
	if err != nil {
		return 0, err
	}
	if net.InputSize() != engine.ViewSize || net.OutputSize() != engine.ActionSize {
		return 0, errors.Errorf("model %s has shape %dx%d, want %dx%d",
			hdr.Stem, net.InputSize(), net.OutputSize(), engine.ViewSize, engine.ActionSize)
	}
	models.Lock()
	defer models.Unlock()
	models.next++
	models.nets[models.next] = net
	return models.next, nil
}

func lookup(h uint64) (*network.Network, error) {
	models.Lock()
	defer models.Unlock()
	net, ok := models.nets[h]
	if !ok {
		return nil, errors.Errorf("unknown model handle %d", h)
	}
	return net, nil
}

func release(h uint64) {
	models.Lock()
	defer models.Unlock()
	delete(models.nets, h)
}

func decide(h uint64, view []float32) (simulation.Decision, error) {
	net, err := lookup(h)
	if err != nil {
		return simulation.Decision{}, err
	}
	return simulation.DecideSingle(net, view)
}

func cbool(b bool) C.int {
	if b {
		return 1
	}
	return 0
}

// ThirtyOneViewSize returns the number of floats the host passes to
// ThirtyOneEvaluate.
//
//export ThirtyOneViewSize
func ThirtyOneViewSize() C.int {
	return C.int(engine.ViewSize)
}

// ThirtyOneLoad loads a model file and returns its handle, or 0 on failure.
//
//export ThirtyOneLoad
func ThirtyOneLoad(path *C.char) C.uint64_t {
	h, err := open(C.GoString(path))
	if err != nil {
		logrus.WithError(err).Error("Failed to load model")
		return 0
	}
	return C.uint64_t(h)
}

// ThirtyOneFree drops a handle returned by ThirtyOneLoad.
//
//export ThirtyOneFree
func ThirtyOneFree(h C.uint64_t) {
	release(uint64(h))
}

// ThirtyOneEvaluate decides one move for the view pointed to by input. On a
// swap tableCard and ownCard receive the exchanged cards; otherwise
// wantsToPass is set and wantsToSwap tells whether the seat swaps its whole
// hand with the table while passing. It returns 0 on success and -1 on error.
//
//export ThirtyOneEvaluate
func ThirtyOneEvaluate(h C.uint64_t, input *C.float, wantsToPass, wantsToSwap, tableCard, ownCard *C.int) C.int {
	view := unsafe.Slice((*float32)(unsafe.Pointer(input)), engine.ViewSize)
	d, err := decide(uint64(h), view)
	if err != nil {
		logrus.WithError(err).Error("Failed to evaluate")
		return -1
	}
	*wantsToPass = cbool(d.WantsToPass)
	*wantsToSwap = cbool(d.WantsToSwap)
	*tableCard = C.int(d.TableCard)
	*ownCard = C.int(d.OwnCard)
	return 0
}

func main() {} // Required for CGo
