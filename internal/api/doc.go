// Package api serves the cards HTTP surface: sign-in, card create, edit, get,
// delete and search, and status listing. Handlers decode and validate
// requests, call the services, and write the success envelope or an error
// body carrying a stable code.
package api
