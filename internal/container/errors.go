package container

// errDockerUnavailable signals that the Docker daemon could not be reached.
// The CLI maps it to a distinct exit code so scripts can tell "engine down"
// apart from ordinary failures.
type errDockerUnavailable struct {
	reason string
	cause  error
}

func (e errDockerUnavailable) Error() string {
	if e.cause != nil {
		return e.reason + ": " + e.cause.Error()
	}
	return e.reason
}

func (e errDockerUnavailable) Unwrap() error { return e.cause }

// IsDockerUnavailable reports whether err indicates an unreachable daemon.
func IsDockerUnavailable(err error) bool {
	_, ok := err.(errDockerUnavailable)
	return ok
}

// nameInUseError signals that an instance name is already taken on this host.
type nameInUseError struct{ name string }

func (e nameInUseError) Error() string {
	return "instance name '" + e.name + "' is already in use; pick another name or remove the old instance"
}

// IsNameInUse reports whether err indicates an instance name conflict.
func IsNameInUse(err error) bool {
	_, ok := err.(nameInUseError)
	return ok
}
