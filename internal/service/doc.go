// Package service holds the card and sign-in use cases.
//
// CardService validates input against the domain rules, checks the caller
// against the owner-or-admin policy, stamps audit fields and writes through a
// CardRepository inside one transaction. Lifecycle events are emitted only
// after the transaction commits. AuthService verifies a password and issues a
// bearer token.
//
// Every failure leaving this package is a *Error carrying a stable code
// (CA000..CA008), a caller-safe message and a Kind the API layer maps to an
// HTTP status. Persistence details stay in the wrapped error and are never
// part of the message.
package service
