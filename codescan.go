package codescan

import (
	"github.com/mkarlsen/codescan/internal/analyze"
	"github.com/mkarlsen/codescan/internal/report"
)

// Public type aliases for the internal types that appear in the Scanner API
// and in the persisted report. These are Go type aliases (=) — identical to
// the internal types at compile time; no conversion is needed.

type Report = report.Report
type Result = analyze.Result
type ClassInfo = analyze.ClassInfo
type Route = analyze.Route
