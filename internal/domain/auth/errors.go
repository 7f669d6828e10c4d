package auth

import "errors"

// ErrTokenMissing indicates the caller presented no credentials.
var ErrTokenMissing = errors.New("token missing")

// CodeInvalidToken is the AppError code for rejected tokens.
const CodeInvalidToken = "invalid_token"
