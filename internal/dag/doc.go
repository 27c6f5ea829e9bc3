// Package dag is the operation graph the optimizer walks.
//
// A Circuit keeps its nodes in program order. Program order is one valid
// topological order of the dependency graph (each node depends on the
// previous node touching each of its wires), so iteration never needs a sort.
//
// Rewrites are local: RemoveNode drops one node, SubstituteNode replaces one
// node by a small Subgraph whose local wire slots are bound to the replaced
// node's operand wires in order. Both keep every other node where it was, so
// an order snapshot taken before a rewrite stays valid for the nodes that
// remain.
package dag
