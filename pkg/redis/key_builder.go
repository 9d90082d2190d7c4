package redis

import "fmt"

// Key patterns
const (
	KeyLedgerBalance = "ledger:balance:%s"
)

// KeyBuilder prefixes keys per environment so staging and prod can share a server
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a key builder with an environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	switch environment {
	case "development", "staging":
		prefix = "staging"
	case "test":
		prefix = "test"
	}

	return &KeyBuilder{
		prefix: prefix,
	}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

func (kb *KeyBuilder) KeyLedgerBalance(account string) string {
	return kb.BuildKey(fmt.Sprintf(KeyLedgerBalance, account))
}

