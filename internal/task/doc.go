// Package task provides background task processing with database-backed
// persistence, worker pools, and crash recovery.
package task
