// Package roles provides a file-backed role driver.
//
// It mirrors the group driver: roles are flat named principals with
// free-form attributes and a list of unified user ids. The two capabilities
// stay separate so a deployment can source groups and roles from different
// backends.
package roles
