// Package users provides a file-backed account driver.
//
// Accounts are stored in a locked YAML snapshot with PBKDF2-hashed
// passwords, which makes the driver a reasonable default for development
// setups and small single-host deployments. It implements the full account
// capability, including shadow logins: when another backend authenticates a
// user this driver does not know yet, it can materialize a matching local
// account on the fly.
package users
