package services

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"
)

// CaptchaService produces small arithmetic challenges for the signup form.
type CaptchaService struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewCaptchaService() *CaptchaService {
	return &CaptchaService{
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// GenerateMathProblem returns a display string (e.g. "3 + 5") and the integer answer.
// Usage: Store answer in session, display question to user.
func (s *CaptchaService) GenerateMathProblem() (string, int) {
	s.mu.Lock()
	a, b, op := s.rnd.Intn(10), s.rnd.Intn(10), s.rnd.Intn(2)
	s.mu.Unlock()

	if op == 0 {
		return fmt.Sprintf("%d + %d", a, b), a + b
	}
	// keep subtraction non-negative
	if a < b {
		a, b = b, a
	}
	return fmt.Sprintf("%d - %d", a, b), a - b
}

// Check compares a submitted answer with the expected one.
func (s *CaptchaService) Check(expected int, answer string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	return err == nil && n == expected
}
