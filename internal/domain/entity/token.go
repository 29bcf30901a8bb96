package entity

// TokenType distinguishes short-lived access tokens from long-lived refresh tokens.
type TokenType string

const (
	// TokenTypeAccess marks a token that authorizes protected operations.
	TokenTypeAccess TokenType = "access"
	// TokenTypeRefresh marks a token that can only be exchanged for a new access token.
	TokenTypeRefresh TokenType = "refresh"
)

// String returns the string representation of the TokenType.
func (t TokenType) String() string {
	return string(t)
}

// IsValid checks if the TokenType is a known value.
func (t TokenType) IsValid() bool {
	switch t {
	case TokenTypeAccess, TokenTypeRefresh:
		return true
	default:
		return false
	}
}
