package crud

import (
	"fmt"
	"strings"
	"sync"
)

// URLs maps route names such as "finance:member_detail" to gin path patterns.
type URLs struct {
	mu     sync.RWMutex
	routes map[string]string
}

func NewURLs() *URLs {
	return &URLs{routes: make(map[string]string)}
}

func (u *URLs) Add(name, pattern string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.routes[name] = pattern
}

// Reverse fills the :pk segment of a named route.
func (u *URLs) Reverse(name, pk string) (string, error) {
	u.mu.RLock()
	pattern, ok := u.routes[name]
	u.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("no route named %q", name)
	}

	if strings.Contains(pattern, ":pk") {
		if pk == "" {
			return "", fmt.Errorf("route %q needs a pk", name)
		}
		pattern = strings.Replace(pattern, ":pk", pk, 1)
	}
	return pattern, nil
}

// Resolve reverses name with pk, falling back to the given route name.
func (u *URLs) Resolve(name, pk, fallback string) string {
	if name != "" {
		if path, err := u.Reverse(name, pk); err == nil {
			return path
		}
	}
	path, err := u.Reverse(fallback, "")
	if err != nil {
		return "/"
	}
	return path
}
