package form

import "sync"

// Navigator moves the user to another route once the form is done with them.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a plain function to Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) {
	f(route)
}

// RecordingNavigator remembers every navigation instead of performing it.
// The HTTP layer turns the last recorded route into a redirect.
type RecordingNavigator struct {
	mu     sync.Mutex
	routes []string
}

func (n *RecordingNavigator) Navigate(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
}

// Routes returns the recorded navigations in order.
func (n *RecordingNavigator) Routes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.routes...)
}

// Last returns the most recent navigation, if any.
func (n *RecordingNavigator) Last() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.routes) == 0 {
		return "", false
	}
	return n.routes[len(n.routes)-1], true
}
