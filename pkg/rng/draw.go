package rng

import (
	"fmt"
	"math"
)

// Uint32 returns the next raw 32-bit output.
func (s *Source) Uint32() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next()
}

// Uint64 returns two consecutive outputs joined high word first.
func (s *Source) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	hi := uint64(s.next())
	return hi<<32 | uint64(s.next())
}

// Bool returns a uniformly distributed boolean from the top output bit.
func (s *Source) Bool() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next()>>31 != 0
}

// BoolP returns true with probability p. The boundaries 0 and 1 are answered
// without consuming a draw.
func (s *Source) BoolP(p float64) bool {
	if p < 0 || p > 1 || math.IsNaN(p) {
		panic(fmt.Errorf("%w: probability %v outside [0,1]", ErrInvalidArgument, p))
	}
	if p == 0 {
		return false
	}
	if p == 1 {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.float64() < p
}

// Float32 returns a float32 in [0,1) with 24 random bits.
func (s *Source) Float32() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return float32(s.next()>>8) / (1 << 24)
}

// Float64 returns a float64 in [0,1) with 53 random bits.
func (s *Source) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.float64()
}

func (s *Source) float64() float64 {
	a := uint64(s.next() >> 5)
	b := uint64(s.next() >> 6)
	return float64(a<<26+b) / (1 << 53)
}

// Intn returns a uniform int in [0,n). It panics with ErrInvalidArgument
// when n <= 0.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		panic(fmt.Errorf("%w: Intn(%d)", ErrInvalidArgument, n))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.intn(n)
}

func (s *Source) intn(n int) int {
	if n <= math.MaxInt32 {
		return int(s.int31n(int32(n)))
	}
	return int(s.int63n(int64(n)))
}

// int31n follows the classic 31-bit scheme: a multiply-shift for powers of
// two, rejection of the incomplete final bucket otherwise. The wrap-around
// in bits-val+(n-1) is intentional.
func (s *Source) int31n(n int32) int32 {
	if n&-n == n {
		return int32((int64(n) * int64(s.next()>>1)) >> 31)
	}
	for {
		bits := int32(s.next() >> 1)
		val := bits % n
		if bits-val+(n-1) >= 0 {
			return val
		}
	}
}

func (s *Source) int63n(n int64) int64 {
	if n&-n == n {
		hi := uint64(s.next())
		return int64((hi<<32|uint64(s.next()))>>1) & (n - 1)
	}
	for {
		hi := uint64(s.next())
		bits := int64((hi<<32 | uint64(s.next())) >> 1)
		val := bits % n
		if bits-val+(n-1) >= 0 {
			return val
		}
	}
}

// AscendingInt returns an int in [0,n) biased toward 0: a uniform draw r is
// accepted with probability (n-r)/n. The whole rejection loop runs under one
// lock so concurrent callers cannot split it.
func (s *Source) AscendingInt(n int) int {
	if n <= 0 {
		panic(fmt.Errorf("%w: AscendingInt(%d)", ErrInvalidArgument, n))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		r := s.intn(n)
		if s.intn(n) < n-r {
			return r
		}
	}
}

// Perm returns a random permutation of [0,n).
func (s *Source) Perm(n int) []int {
	m := make([]int, n)
	for i := range m {
		m[i] = i
	}
	s.Shuffle(n, func(i, j int) { m[i], m[j] = m[j], m[i] })
	return m
}

// Shuffle performs a Fisher-Yates shuffle over n elements. swap runs under
// the source lock and must not draw from s.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	if n < 0 {
		panic(fmt.Errorf("%w: Shuffle(%d)", ErrInvalidArgument, n))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := n - 1; i > 0; i-- {
		swap(i, s.intn(i+1))
	}
}
