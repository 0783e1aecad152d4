// Package rewrite compiles ordered regular-expression rule tables and applies
// them to review text.
//
// Rules are plain data records ({pattern, replacement, flags}) so each stage
// of the pipeline can declare its substitutions as a table and unit test them
// one row at a time. Patterns use .NET-style syntax through regexp2 because
// several rules depend on lookbehind and lookahead assertions.
//
// Every application is total: a rule that fails to match, times out, or hits
// an engine error leaves the text unchanged.
package rewrite
