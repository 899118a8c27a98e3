// Package database provides PostgreSQL connectivity, embedded migrations,
// and the repository implementations behind the domain interfaces.
package database
