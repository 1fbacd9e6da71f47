// Package services defines the error taxonomy shared by components that talk
// to the external transcoding and probing engine. Errors are tagged with
// sentinel markers so the job controller can classify them at the loop
// boundary without string matching.
package services
