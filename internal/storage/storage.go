// Package storage provides the persistent key-value medium backing the
// schedule repository. The medium offers get/set/remove/enumerate-keys
// with single-key atomicity and no cross-key transactions.
package storage

// KV is the key-value medium contract. Get reports absence through its
// second return instead of an error.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
	Keys() ([]string, error)
}
