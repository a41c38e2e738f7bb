// Package acl provides a file-backed permission driver.
//
// Permissions form a tree of dot-separated names ("blog.comments") where
// each node may define a set of actions. Assignments hand a subset of a
// permission's actions to a principal (a group, role or user), either as a
// grant or as a revocation that overrides grants from elsewhere.
//
// Deleting a permission removes its whole subtree and every assignment
// pointing into it; explicitly created action-less parents disappear with
// their last child.
package acl
