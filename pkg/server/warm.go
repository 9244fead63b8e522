package server

import "sync"

// Built once per process and reused by warm invocations
var (
	warmContainer *Container
	warmErr       error
	warmOnce      sync.Once
)

// GetContainer returns the process-wide container, building it on first use
func GetContainer() (*Container, error) {
	warmOnce.Do(func() {
		warmContainer, warmErr = NewContainerFromEnv()
	})
	return warmContainer, warmErr
}
