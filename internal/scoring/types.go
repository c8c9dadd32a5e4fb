package scoring

import (
	"fmt"
	"strings"

	"github.com/danielpatrickdp/reform-points/go-controller/internal/diff"
)

// #region line
// Line is one signed contribution of the explanation trail.
type Line struct {
	Label  string `json:"label"`
	Amount int    `json:"amount"`
}

func (l Line) String() string {
	return fmt.Sprintf("%s: %d", l.Label, l.Amount)
}

// #endregion line

// #region result
// Result is the output of Score. Total is the plain sum of Lines and may be
// below the base cost, or negative; callers clamp for display only.
type Result struct {
	Total int       `json:"total"`
	Base  int       `json:"base"`
	Lines []Line    `json:"lines"`
	Diff  diff.Diff `json:"diff"`
}

// Explanation renders the trail one line per contribution.
func (r Result) Explanation() string {
	parts := make([]string, len(r.Lines))
	for i, l := range r.Lines {
		parts[i] = l.String()
	}
	return strings.Join(parts, "\n")
}

// Strings returns the explanation lines as plain strings.
func (r Result) Strings() []string {
	out := make([]string, len(r.Lines))
	for i, l := range r.Lines {
		out[i] = l.String()
	}
	return out
}

// #endregion result
