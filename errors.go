package sfcmap

import "fmt"

// NotFoundError reports a lookup of a node, link, function or chain
// that does not exist.  It is a precondition violation and is never retried.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Name)
}

// InfeasibleError reports a chain-user instance that cannot be embedded
type InfeasibleError struct {
	User   string
	Reason string
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("instance %s infeasible: %s", e.User, e.Reason)
}
