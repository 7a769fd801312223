package sisago

import (
	"errors"
	"fmt"

	"github.com/hupe1980/sisago/partition"
)

var (
	// ErrInvalidConfiguration is the sentinel for all build-time
	// misconfiguration (bad shard count, empty record set). It surfaces
	// immediately at the point of misuse; no partial index is left
	// behind.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrEmptyRecordSet is returned when Build is called without
	// records.
	ErrEmptyRecordSet = fmt.Errorf("%w: empty record set", ErrInvalidConfiguration)

	// ErrIndexClosed is returned when an operation is attempted on a
	// closed index.
	ErrIndexClosed = errors.New("index closed")
)

// ErrInvalidShardCount indicates a shard count outside [1, numRecords].
//
// The original underlying error (if any) can be accessed via
// errors.Unwrap; the error also matches ErrInvalidConfiguration.
type ErrInvalidShardCount struct {
	NumShards  int
	NumRecords int
	cause      error
}

func (e *ErrInvalidShardCount) Error() string {
	return fmt.Sprintf("invalid shard count: %d (records: %d)", e.NumShards, e.NumRecords)
}

func (e *ErrInvalidShardCount) Unwrap() error {
	if e.cause != nil {
		return e.cause
	}
	return ErrInvalidConfiguration
}

// Is lets errors.Is treat every invalid shard count as an
// ErrInvalidConfiguration.
func (e *ErrInvalidShardCount) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// translateError maps lower-layer errors into the public error
// contract.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var esc *partition.ErrInvalidShardCount
	if errors.As(err, &esc) {
		return &ErrInvalidShardCount{NumShards: esc.NumShards, NumRecords: esc.NumRecords, cause: err}
	}

	return err
}
