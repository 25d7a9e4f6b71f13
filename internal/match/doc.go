// Package match implements driver selection and the matchmaking worker.
//
// Selection is a pure function: score every accepting driver by zone
// proximity to the rider's pickup and take the minimum. The worker wraps
// that selection in the store's locking transaction and polls until its
// context is cancelled.
package match
