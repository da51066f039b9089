package ports

// KeyValuePort is the session and UI state store. Get reports whether the
// key was present.
type KeyValuePort interface {
	Get(key string) (string, bool, error)
	Set(key string, value string) error
	Remove(key string) error
}
