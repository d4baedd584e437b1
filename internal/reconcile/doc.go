// Package reconcile turns a desired channel layout into the minimal
// ordered sequence of mutations against a store that only offers "set
// absolute position" per channel.
//
// Positions form one dense guild-wide sequence, so each move implicitly
// shifts every channel between its old and new slot. The planner keeps an
// in-memory position model in lockstep with each planned move and decides
// every subsequent slot against that post-move state; this is what makes
// the plan minimal and correct without a remote read-back per move, and
// why the plan must be applied in exactly the computed order.
package reconcile
