// Package groups provides a file-backed group driver.
//
// Groups are flat named principals with free-form attributes and a
// membership list of unified user ids. The driver also reacts to user
// deletion events by purging the deleted id from every membership list.
package groups
