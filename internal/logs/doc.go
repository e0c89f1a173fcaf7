// Package logs reads the JSON log file subforge appends to in its log
// directory: tailing the last lines, following new ones, and filtering
// records by run, component or level for `subforge logs`.
package logs
