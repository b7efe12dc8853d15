package domain

import "fmt"

// PlaceKind distinguishes a source-file location from a synthetic origin
// (something the user typed on the command line, an option, or an
// environment variable), so diagnostics can be formatted appropriately
// for either.
type PlaceKind int

const (
	// PlaceNone means no location is known.
	PlaceNone PlaceKind = iota
	// PlaceFile is a file:line:column location inside a rule base.
	PlaceFile
	// PlaceArgument is a command-line argument (a root dependency name).
	PlaceArgument
	// PlaceOption is a command-line option.
	PlaceOption
	// PlaceEnvironment is an environment variable.
	PlaceEnvironment
)

// Place is a source location, used to point diagnostics at the rule-base
// text (or synthetic origin) that produced a given dependency or rule.
//
// Columns are stored 0-based internally and rendered 1-based, per the
// diagnostic interface's convention.
type Place struct {
	Kind   PlaceKind
	File   string
	Line   int
	Column int
}

// NewFilePlace builds a Place pointing at a file:line:column location.
func NewFilePlace(file string, line, column int) Place {
	return Place{Kind: PlaceFile, File: file, Line: line, Column: column}
}

// NewArgumentPlace builds a Place for a root dependency given on the
// command line.
func NewArgumentPlace() Place {
	return Place{Kind: PlaceArgument}
}

// IsEmpty reports whether the place carries no location at all.
func (p Place) IsEmpty() bool {
	return p.Kind == PlaceNone
}

// String renders the place the way the diagnostic interface expects:
// "FILE:LINE:COL: " with a 1-based column, or "" when there is no
// location to print (the caller then falls back to the "$0: ***"
// no-location form).
func (p Place) String() string {
	switch p.Kind {
	case PlaceFile:
		return fmt.Sprintf("%s:%d:%d: ", p.File, p.Line, p.Column+1)
	case PlaceArgument:
		return "<argument>: "
	case PlaceOption:
		return "<option>: "
	case PlaceEnvironment:
		return "<environment>: "
	default:
		return ""
	}
}
