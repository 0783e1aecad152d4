// Package tagging defines the token and entity model shared by the
// integration stages and the taggers that produce it.
package tagging
