// Package evaltree builds the evaluation tree used by the bulk calculator.
//
// A Tree is an arena of nodes in evaluation order: every internal node refers
// only to nodes with smaller indices, so a single forward sweep computes every
// product once. Node 0 is always the empty string (the identity) and nodes
// 1..len(labels) are the single-label leaves.
//
// Requested strings are registered shortest first. A string s is factored as
// s = p + r where p is the longest proper prefix already in the tree; r is
// registered recursively and s becomes Internal(left=p, right=r), read as
// "apply p, then r". Duplicate strings share a node.
//
// Split partitions the requested strings into contiguous groups, each a
// self-contained re-indexed tree that can be evaluated independently.
package evaltree
