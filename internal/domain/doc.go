// Package domain holds the core entities, their input validation, and the
// repository/broadcaster interfaces the rest of the application is wired
// against. It deliberately depends on nothing outside the standard library.
package domain
