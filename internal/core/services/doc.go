// Package services implements the core sync logic: field mapping,
// change detection, title resolution and pass orchestration.
package services
