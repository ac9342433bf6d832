// Package fileutil scans session directories for the files curvesplit reads.
//
// ScanDirectory walks a directory and keeps files whose extension and
// extension-less name match the given options. Output is absolute and sorted,
// so discovery is deterministic across platforms. Hidden directories are
// never entered.
//
// FindOne is the strict form used for event-log discovery: exactly one file
// must match, anything else is an error the caller can test with errors.Is.
//
//	path, err := fileutil.FindOne(taskGroup, fileutil.ScanOptions{
//	    Pattern:    `^Log_.*_\d+T\d+(?:_eventlog)?$`,
//	    Extensions: []string{".csv"},
//	})
//	if errors.Is(err, fileutil.ErrNoMatch) {
//	    ...
//	}
//
// Subdirs lists the immediate, non-hidden subdirectories of a directory,
// which is how task-group directories are found inside a behavior directory.
package fileutil
