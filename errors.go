package main

import (
	"fmt"
	"sort"
	"strings"
)

// InvalidActionError is returned for any action other than Create, Update
// or Delete. It is raised before the handler touches the network or disk.
type InvalidActionError struct {
	Action string
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("unknown action type %q", e.Action)
}

// RequestError reports a required request field that was left empty.
type RequestError struct {
	Field  string
	Action Action
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("missing %s for %s action", e.Field, e.Action)
}

// ObjectAccessError is returned when the archive object could not be
// reached, either because the existence check never succeeded within the
// retry budget or because the download itself failed.
type ObjectAccessError struct {
	// Op is the object store operation that failed ("head" or "get")
	Op       string
	Bucket   string
	Key      string
	Attempts int
	Err      error
}

func (e *ObjectAccessError) Error() string {
	if e.Attempts > 1 {
		return fmt.Sprintf("%s %s/%s failed after %d attempts: %v", e.Op, e.Bucket, e.Key, e.Attempts, e.Err)
	}
	return fmt.Sprintf("%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
}

func (e *ObjectAccessError) Unwrap() error {
	return e.Err
}

// ExtractionError is returned when the archive is malformed or contains an
// entry that cannot be placed inside the extraction directory.
type ExtractionError struct {
	// Entry is the offending archive entry name, empty when the stream itself is bad
	Entry string
	Err   error
}

func (e *ExtractionError) Error() string {
	if e.Entry != "" {
		return fmt.Sprintf("extracting archive entry %q: %v", e.Entry, e.Err)
	}
	return fmt.Sprintf("extracting archive: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// ExternalCommandError is returned when a subprocess exits non-zero or
// cannot be started at all. ExitCode is -1 in the latter case.
type ExternalCommandError struct {
	Program  string
	Args     []string
	ExitCode int
	Output   string
	Err      error
}

func (e *ExternalCommandError) Error() string {
	return fmt.Sprintf("command %q exited with code %d: %v",
		strings.TrimSpace(e.Program+" "+strings.Join(e.Args, " ")), e.ExitCode, e.Err)
}

func (e *ExternalCommandError) Unwrap() error {
	return e.Err
}

// SyncError collects the keys a native sync failed to upload or delete.
type SyncError struct {
	Bucket string
	Failed map[string]error
}

func (e *SyncError) Error() string {
	keys := make([]string, 0, len(e.Failed))
	for key := range e.Failed {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return fmt.Sprintf("sync to bucket %s failed for %d objects: %s", e.Bucket, len(keys), strings.Join(keys, ", "))
}
