package dashboard

import "sync"

// RedirectLatch records the last redirect a controller asked for so the HTTP
// layer can turn it into a response.
type RedirectLatch struct {
	mu     sync.Mutex
	target string
}

func (l *RedirectLatch) Redirect(path string) {
	l.mu.Lock()
	l.target = path
	l.mu.Unlock()
}

// Take returns the pending redirect and clears it.
func (l *RedirectLatch) Take() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	target := l.target
	l.target = ""
	return target, target != ""
}

func (l *RedirectLatch) Pending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.target != ""
}
