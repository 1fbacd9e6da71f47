package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrProbe indicates the probing engine exited non-zero or produced
	// unparseable output. Fatal to the run during stream pre-caching,
	// otherwise fatal only to the file being analyzed.
	ErrProbe = errors.New("probe failure")
	// ErrTranscode indicates the transcoding engine failed for one chapter.
	ErrTranscode = errors.New("transcode failure")
	// ErrDirectoryCreate indicates the destination directory for one chapter
	// could not be created.
	ErrDirectoryCreate = errors.New("directory create failure")
	// ErrStopped marks a subprocess exit caused by a stop request. Never
	// surfaced to the operator as an error.
	ErrStopped = errors.New("stopped")
	// ErrPaused marks a subprocess exit caused by a pause request. Never
	// surfaced to the operator as an error.
	ErrPaused = errors.New("paused")
	// ErrConfiguration indicates unusable configuration.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTranscode
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsControlSignal reports whether err represents a deliberate pause or stop
// rather than a genuine failure.
func IsControlSignal(err error) bool {
	return errors.Is(err, ErrStopped) || errors.Is(err, ErrPaused)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
