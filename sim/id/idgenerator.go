// Package id hands out identifiers for events and trace records.
package id

import (
	"log"
	"reflect"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/xid"
)

// IDGenerator can generate IDs.
type IDGenerator interface {
	Generate() string
}

var (
	generatorLock   sync.Mutex
	generatorInUse  bool
	activeGenerator IDGenerator = &sequentialIDGenerator{}
)

// UseSequentialIDGenerator makes Generate return 1, 2, 3, ... It is the
// default, and keeps event IDs reproducible across runs.
func UseSequentialIDGenerator() {
	setGenerator(&sequentialIDGenerator{})
}

// UseParallelIDGenerator makes Generate return globally unique xid strings.
// IDs are no longer deterministic. Selecting the generator that is already
// active is always allowed; switching after the first Generate panics.
func UseParallelIDGenerator() {
	setGenerator(parallelIDGenerator{})
}

func setGenerator(g IDGenerator) {
	generatorLock.Lock()
	defer generatorLock.Unlock()

	if reflect.TypeOf(activeGenerator) == reflect.TypeOf(g) {
		return
	}

	if generatorInUse {
		log.Panic("cannot change id generator type after using it")
	}

	activeGenerator = g
}

// Generate returns a new ID from the active generator.
func Generate() string {
	generatorLock.Lock()
	generatorInUse = true
	g := activeGenerator
	generatorLock.Unlock()

	return g.Generate()
}

type sequentialIDGenerator struct {
	nextID uint64
}

func (g *sequentialIDGenerator) Generate() string {
	idNumber := atomic.AddUint64(&g.nextID, 1)

	return strconv.FormatUint(idNumber, 10)
}

type parallelIDGenerator struct{}

func (g parallelIDGenerator) Generate() string {
	return xid.New().String()
}
