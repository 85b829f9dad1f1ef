// Package entity owns every mutable simulation entity — functions, DAGs,
// nodes, containers, and requests — behind keyed, lock-guarded accessors.
//
// The simulator itself is single-threaded (one frame fully completes before
// the next begins); the locks document which collections a caller may hold
// concurrently rather than defending against real concurrent mutation.
package entity
