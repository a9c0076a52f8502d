package client

import "github.com/civicops/drconsole/internal/common"

var (
	ErrUnavailable  = common.ErrorUnavailable
	ErrUnauthorized = common.ErrorUnauthorized
)
