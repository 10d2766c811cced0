// Package pagination provides shared pagination and sorting logic for
// memctl list commands.
//
// Two mutually exclusive modes are supported: offset-based (--limit and
// --offset, matching the service API directly) and page-based (--page and
// --page-size, converted to offsets before the request). Sort expressions
// use "field" or "field:order" syntax and are validated against the
// fields each list supports.
package pagination
