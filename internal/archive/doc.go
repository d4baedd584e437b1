// Package archive decides which channels have gone inactive and performs
// the active/archived transitions against the remote store.
//
// The inactivity decision is a pure predicate over the last observed
// message timestamp. Failure to read a channel's history is always treated
// as "not inactive": a false negative costs one more cycle in the project
// list, a false positive locks a live channel.
package archive
