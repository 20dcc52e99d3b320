// Package domain contains the core business entities of the cards service:
// cards, their statuses and users. Entities normalize and validate their own
// fields; persistence and access control live elsewhere.
package domain
