package syncstore

import (
	"errors"
	"fmt"

	"github.com/civicops/drconsole/internal/common"
)

// ErrorCode classifies a RemoteOperationError.
type ErrorCode string

const (
	// CodeRemoteFailure covers transport, auth and server-side failures.
	CodeRemoteFailure ErrorCode = "REMOTE_FAILURE"

	// CodeNotFound means the target id is unknown locally or remotely.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeDecode means the store answered with a record the codec rejected.
	CodeDecode ErrorCode = "DECODE_FAILURE"
)

// Operation names used in errors and logs.
const (
	OpList   = "list"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// RemoteOperationError reports a failed list/create/update/delete. The local
// mirror is always left as it was before the call.
type RemoteOperationError struct {
	Code       ErrorCode
	Op         string
	Collection string
	ID         string
	Err        error
}

func (e *RemoteOperationError) Error() string {
	target := e.Collection
	if e.ID != "" {
		target = fmt.Sprintf("%s/%s", e.Collection, e.ID)
	}
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %s", e.Op, target, e.Code)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, target, e.Err)
}

func (e *RemoteOperationError) Unwrap() error { return e.Err }

func newRemoteError(op, collection, id string, err error) *RemoteOperationError {
	code := CodeRemoteFailure
	if errors.Is(err, common.ErrorNotFound) {
		code = CodeNotFound
	}
	return &RemoteOperationError{Code: code, Op: op, Collection: collection, ID: id, Err: err}
}

func newNotFoundError(op, collection, id string) *RemoteOperationError {
	return &RemoteOperationError{Code: CodeNotFound, Op: op, Collection: collection, ID: id, Err: common.ErrorNotFound}
}

// IsNotFound reports whether err is a RemoteOperationError for a missing id.
func IsNotFound(err error) bool {
	var re *RemoteOperationError
	if errors.As(err, &re) {
		return re.Code == CodeNotFound
	}
	return false
}
