// Package services wires the console's building blocks together: the remote
// client, one sync store per collection, the publication machine, table
// views and the scheduled-publication reconciler.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/civicops/drconsole/internal/client/client"
	"github.com/civicops/drconsole/internal/common"
)

// AuthClient is the part of client.Client that AuthService uses.
type AuthClient interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) error
	Ping(ctx context.Context) error
	SetTokens(access, refresh string)
	Close() error
}

// AuthService defines authentication operations for the console.
type AuthService interface {
	Login(ctx context.Context, username string, password []byte) error
	Register(ctx context.Context, username string, password []byte) error
	Ping(ctx context.Context) error
	Logout(ctx context.Context)
	Close(ctx context.Context) error
	Username() string
}

type authService struct {
	client   AuthClient
	username string
}

// NewAuthService constructs an AuthService bound to the given API client.
func NewAuthService(c AuthClient) AuthService {
	return &authService{client: c}
}

// Login authenticates and keeps the token pair inside the client. The
// password slice is wiped before returning.
func (a *authService) Login(ctx context.Context, username string, password []byte) error {
	defer common.WipeByteArray(password)

	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username: %w", common.ErrorValidation)
	}
	if err := a.client.Login(ctx, username, string(password)); err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	a.username = username
	return nil
}

// Register creates a staff account. The password slice is wiped before
// returning.
func (a *authService) Register(ctx context.Context, username string, password []byte) error {
	defer common.WipeByteArray(password)

	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username: %w", common.ErrorValidation)
	}
	return a.client.Register(ctx, username, string(password))
}

// Logout forgets the token pair; later calls are unauthenticated.
func (a *authService) Logout(ctx context.Context) {
	a.client.SetTokens("", "")
	a.username = ""
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}

// Username is the account of the last successful login.
func (a *authService) Username() string {
	return a.username
}

var _ AuthClient = (*client.GRPCClient)(nil)
