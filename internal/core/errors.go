package core

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrPostNotFound    = fmt.Errorf("post %w", ErrNotFound)
	ErrChatNotFound    = fmt.Errorf("chat %w", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrBlobNotFound    = fmt.Errorf("blob %w", ErrNotFound)
	ErrUnknownVillage  = errors.New("unknown village")
	ErrUnauthenticated = errors.New("no user session")
	ErrNotSender       = errors.New("only the sender can delete a message for everyone")
	ErrInvalidOTP      = errors.New("invalid otp")
	ErrInvalidInput    = errors.New("invalid input")
)
