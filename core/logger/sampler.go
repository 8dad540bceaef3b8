package logger

import (
	"strconv"
	"strings"
	"sync"
)

// ratioSampler admits num out of every den events. A zero ratio means
// sampling is off and everything passes.
type ratioSampler struct {
	mu   sync.Mutex
	num  int
	den  int
	seen int
}

func newRatioSampler(num, den int) *ratioSampler {
	s := &ratioSampler{}
	s.Set(num, den)
	return s
}

// Set replaces the ratio and restarts the cycle.
func (s *ratioSampler) Set(num, den int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if num <= 0 || den <= 0 {
		s.num, s.den, s.seen = 0, 0, 0
		return
	}
	if num > den {
		num = den
	}
	s.num = num
	s.den = den
	s.seen = 0
}

// Allow reports whether the next event passes the sampling window.
func (s *ratioSampler) Allow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.den <= 0 || s.num <= 0 {
		return true
	}
	s.seen++
	if s.seen > s.den {
		s.seen = 1
	}
	return s.seen <= s.num
}

// parseRatioSpec reads "N/M" or a bare "M" (meaning 1/M) from config.
// Anything unparseable disables sampling.
func parseRatioSpec(spec string) (int, int) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return 0, 0
	}
	if left, right, ok := strings.Cut(spec, "/"); ok {
		num, err1 := strconv.Atoi(strings.TrimSpace(left))
		den, err2 := strconv.Atoi(strings.TrimSpace(right))
		if err1 == nil && err2 == nil {
			return num, den
		}
		return 0, 0
	}
	if v, err := strconv.Atoi(spec); err == nil && v > 0 {
		return 1, v
	}
	return 0, 0
}
