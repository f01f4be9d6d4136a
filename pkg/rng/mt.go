// Package rng provides the seeded Mersenne Twister (MT19937) source that
// drives every stochastic decision of the evolution engine.
//
// A Source is safe for concurrent use: every draw holds the source's lock
// for its whole state transition, so draws from different goroutines are
// serialized and never interleave inside one output word.
package rng

import (
	"errors"
	"fmt"
	"sync"
)

const (
	stateSize   = 624
	shiftSize   = 397
	matrixA     = 0x9908b0df
	upperMask   = 0x80000000
	lowerMask   = 0x7fffffff
	defaultSeed = 5489
)

// ErrInvalidArgument is the panic value for out-of-range arguments such as
// Intn(0) or BoolP(1.5). These are programming errors, as in math/rand.
var ErrInvalidArgument = errors.New("rng: invalid argument")

// Source is a 32-bit Mersenne Twister. The zero value behaves like
// New(5489).
type Source struct {
	mu     sync.Mutex
	mt     [stateSize]uint32
	mti    int
	seeded bool
}

// New returns a source seeded with seed.
func New(seed uint64) *Source {
	s := &Source{}
	s.Seed(seed)
	return s
}

// NewFromArray returns a source seeded with the init_by_array procedure.
func NewFromArray(key []uint32) *Source {
	s := &Source{}
	s.SeedArray(key)
	return s
}

// Seed fully resets the sequence. Seeds that fit in 32 bits use the
// reference init_genrand, so New(5489) reproduces the canonical MT19937
// stream; wider seeds are mixed in as a two-word key.
func (s *Source) Seed(seed uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seed>>32 == 0 {
		s.initGenrand(uint32(seed))
		return
	}
	s.initByArray([]uint32{uint32(seed), uint32(seed >> 32)})
}

// SeedArray mixes every key word into the state, wrapping around the key
// when it is shorter than the state vector.
func (s *Source) SeedArray(key []uint32) {
	if len(key) == 0 {
		panic(fmt.Errorf("%w: empty seed array", ErrInvalidArgument))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initByArray(key)
}

func (s *Source) initGenrand(seed uint32) {
	s.mt[0] = seed
	for i := 1; i < stateSize; i++ {
		prev := s.mt[i-1]
		s.mt[i] = 1812433253*(prev^(prev>>30)) + uint32(i)
	}
	s.mti = stateSize
	s.seeded = true
}

func (s *Source) initByArray(key []uint32) {
	s.initGenrand(19650218)
	i, j := 1, 0
	k := stateSize
	if len(key) > k {
		k = len(key)
	}
	for ; k > 0; k-- {
		prev := s.mt[i-1]
		s.mt[i] = (s.mt[i] ^ ((prev ^ (prev >> 30)) * 1664525)) + key[j] + uint32(j)
		i++
		j++
		if i >= stateSize {
			s.mt[0] = s.mt[stateSize-1]
			i = 1
		}
		if j >= len(key) {
			j = 0
		}
	}
	for k = stateSize - 1; k > 0; k-- {
		prev := s.mt[i-1]
		s.mt[i] = (s.mt[i] ^ ((prev ^ (prev >> 30)) * 1566083941)) - uint32(i)
		i++
		if i >= stateSize {
			s.mt[0] = s.mt[stateSize-1]
			i = 1
		}
	}
	s.mt[0] = upperMask
}

// twist regenerates the whole state vector.
func (s *Source) twist() {
	var y uint32
	kk := 0
	for ; kk < stateSize-shiftSize; kk++ {
		y = (s.mt[kk] & upperMask) | (s.mt[kk+1] & lowerMask)
		s.mt[kk] = s.mt[kk+shiftSize] ^ (y >> 1) ^ mag01(y)
	}
	for ; kk < stateSize-1; kk++ {
		y = (s.mt[kk] & upperMask) | (s.mt[kk+1] & lowerMask)
		s.mt[kk] = s.mt[kk+(shiftSize-stateSize)] ^ (y >> 1) ^ mag01(y)
	}
	y = (s.mt[stateSize-1] & upperMask) | (s.mt[0] & lowerMask)
	s.mt[stateSize-1] = s.mt[shiftSize-1] ^ (y >> 1) ^ mag01(y)
	s.mti = 0
}

func mag01(y uint32) uint32 {
	if y&1 == 0 {
		return 0
	}
	return matrixA
}

// next returns the next tempered word. Callers must hold s.mu.
func (s *Source) next() uint32 {
	if !s.seeded {
		s.initGenrand(defaultSeed)
	}
	if s.mti >= stateSize {
		s.twist()
	}
	y := s.mt[s.mti]
	s.mti++

	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18
	return y
}
