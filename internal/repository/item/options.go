package item

import (
	"fmt"
	"strings"
	"time"
)

// WriteMode selects how a record replaces the previous file content.
type WriteMode string

const (
	// WriteModeAtomic writes a temporary file in the same directory and renames it
	// over the target, so readers never observe a partial record.
	WriteModeAtomic WriteMode = "atomic"
	// WriteModeTruncate truncates the target and writes in place.
	// A crash or a concurrent reader may observe a partial record.
	WriteModeTruncate WriteMode = "truncate"
)

// ParseWriteMode converts a configuration string into a WriteMode.
// An empty string selects WriteModeAtomic.
func ParseWriteMode(s string) (WriteMode, error) {
	switch mode := WriteMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case "":
		return WriteModeAtomic, nil
	case WriteModeAtomic, WriteModeTruncate:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown write mode %q", s)
	}
}

// NamePolicy selects how item names are mapped to file names.
type NamePolicy string

const (
	// NamePolicyStrict rejects names that are not a single path segment.
	NamePolicyStrict NamePolicy = "strict"
	// NamePolicyRaw joins the name to the root unchecked; names with separators
	// address nested paths and ".." segments can leave the root.
	NamePolicyRaw NamePolicy = "raw"
)

// ParseNamePolicy converts a configuration string into a NamePolicy.
// An empty string selects NamePolicyStrict.
func ParseNamePolicy(s string) (NamePolicy, error) {
	switch policy := NamePolicy(strings.ToLower(strings.TrimSpace(s))); policy {
	case "":
		return NamePolicyStrict, nil
	case NamePolicyStrict, NamePolicyRaw:
		return policy, nil
	default:
		return "", fmt.Errorf("unknown name policy %q", s)
	}
}

// Option configures a FileRepository.
type Option func(*FileRepository)

// WithWriteMode sets the write mode.
func WithWriteMode(mode WriteMode) Option {
	return func(r *FileRepository) {
		if mode != "" {
			r.writeMode = mode
		}
	}
}

// WithNamePolicy sets the name policy.
func WithNamePolicy(policy NamePolicy) Option {
	return func(r *FileRepository) {
		if policy != "" {
			r.namePolicy = policy
		}
	}
}

// WithClock overrides the source of record timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *FileRepository) {
		if now != nil {
			r.now = now
		}
	}
}

// saveOptions holds per-call parameters of Save.
type saveOptions struct {
	// alias replaces the item name as the file name when set.
	alias string
	// timestamp replaces the repository clock when set.
	timestamp time.Time
}

// SaveOption configures a single Save call.
type SaveOption func(*saveOptions)

// WithAlias stores the record under alias instead of the item name.
// The record itself still carries the item name.
func WithAlias(alias string) SaveOption {
	return func(o *saveOptions) {
		o.alias = alias
	}
}

// WithTimestamp stamps the record with ts instead of the current time.
func WithTimestamp(ts time.Time) SaveOption {
	return func(o *saveOptions) {
		o.timestamp = ts
	}
}
