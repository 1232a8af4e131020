// Package domain defines the core business entities of the Lingua API:
// users, conversations, and the evaluations produced by transcript analysis.
// Entities validate themselves; persistence and transport concerns live in
// the store and api packages respectively.
package domain
