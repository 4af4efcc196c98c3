// Package table persists the path/average index as a two-column CSV file
// with the header "path,average".
//
// Reads are lenient about content: rows with fewer than two fields are
// skipped and an average that is not an integer reads as 0. Structural
// problems (unopenable file, malformed quoting) are returned as errors.
// Write and Append reject path/average slices of different lengths before
// touching the file.
package table
