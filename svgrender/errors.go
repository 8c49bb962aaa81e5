package svgrender

import (
	"errors"
	"fmt"
)

// ErrorMode is the policy applied to constructs the interpreter doesn't support.
type ErrorMode uint8

const (
	// WarnErrorMode records a diagnostic, logs it and continues.
	// It is the default.
	WarnErrorMode ErrorMode = iota
	// IgnoreErrorMode records a diagnostic and continues silently.
	IgnoreErrorMode
	// StrictErrorMode aborts the conversion on the first unsupported construct.
	StrictErrorMode
)

func (m ErrorMode) String() string {
	switch m {
	case WarnErrorMode:
		return "warn"
	case IgnoreErrorMode:
		return "ignore"
	case StrictErrorMode:
		return "strict"
	default:
		return "<unknown ErrorMode>"
	}
}

// UnsupportedError describes a construct of the document
// which has been skipped.
type UnsupportedError struct {
	Construct string // element, transform, fill, clip-path, image...
	Detail    string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported %s: %s", e.Construct, e.Detail)
}

var (
	errNoRoot     = errors.New("empty document")
	errMultiRoots = errors.New("multiple root elements")
)

// report applies the error policy. A non nil error is only
// returned in strict mode, and must abort the conversion.
func (c *Converter) report(construct, format string, args ...interface{}) error {
	err := &UnsupportedError{Construct: construct, Detail: fmt.Sprintf(format, args...)}
	switch c.opts.ErrorMode {
	case StrictErrorMode:
		return err
	case WarnErrorMode:
		c.logger.Info("unsupported construct", "construct", construct, "detail", err.Detail)
	}
	c.diagnostics = append(c.diagnostics, err)
	return nil
}

// reporter adapts report to the callback used by the transform parser
func (c *Converter) reporter(construct string) func(string) error {
	return func(detail string) error { return c.report(construct, "%s", detail) }
}
