package models

import (
	"fmt"
	"sort"
	"time"
)

// bandEpsilon absorbs float noise when comparing band boundaries. Bands are
// stored with two-decimal precision and laid out on an integer grid
// (e.g. F9 0-39, E8 40-44), so adjacent bands may differ by up to one point.
const bandEpsilon = 1e-9

// FallbackBand is the hard-coded sentinel returned when a grading table has
// no bands at all.
var FallbackBand = GradeBand{Grade: "F9", GradePoint: 0, Description: "Fail"}

// GradeBand maps a contiguous score range to a letter grade and grade point.
type GradeBand struct {
	ID          string  `db:"id" json:"id,omitempty"`
	Grade       string  `db:"grade" json:"grade"`
	MinScore    float64 `db:"min_score" json:"min_score"`
	MaxScore    float64 `db:"max_score" json:"max_score"`
	GradePoint  float64 `db:"grade_point" json:"grade_point"`
	Description string  `db:"description" json:"description"`
}

// GradingTable is a school-owned, ordered set of non-overlapping grade bands
// covering [0, 100]. Tables are treated as immutable snapshots once loaded.
type GradingTable struct {
	ID        string      `db:"id" json:"id"`
	SchoolID  string      `db:"school_id" json:"school_id"`
	Name      string      `db:"name" json:"name"`
	IsDefault bool        `db:"is_default" json:"is_default"`
	Bands     []GradeBand `json:"bands"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}

// Validate checks the band layout: every band well-formed, none overlapping,
// no gap wider than the one-point integer boundary step, and the table as a
// whole covering [0, 100]. Called when a table is loaded or created, never on
// individual lookups.
func (t *GradingTable) Validate() error {
	if len(t.Bands) == 0 {
		return fmt.Errorf("grading table %q has no bands", t.Name)
	}
	bands := make([]GradeBand, len(t.Bands))
	copy(bands, t.Bands)
	sort.Slice(bands, func(i, j int) bool { return bands[i].MinScore < bands[j].MinScore })

	for _, b := range bands {
		if b.MinScore > b.MaxScore {
			return fmt.Errorf("band %s: min score %.2f exceeds max score %.2f", b.Grade, b.MinScore, b.MaxScore)
		}
	}
	if bands[0].MinScore > bandEpsilon {
		return fmt.Errorf("band %s: table does not cover scores from 0 (lowest min %.2f)", bands[0].Grade, bands[0].MinScore)
	}
	if bands[len(bands)-1].MaxScore < 100-bandEpsilon {
		return fmt.Errorf("band %s: table does not cover scores up to 100 (highest max %.2f)", bands[len(bands)-1].Grade, bands[len(bands)-1].MaxScore)
	}
	for i := 1; i < len(bands); i++ {
		prev, cur := bands[i-1], bands[i]
		if cur.MinScore <= prev.MaxScore+bandEpsilon {
			return fmt.Errorf("bands %s and %s overlap", prev.Grade, cur.Grade)
		}
		if cur.MinScore-prev.MaxScore > 1+bandEpsilon {
			return fmt.Errorf("gap between bands %s and %s", prev.Grade, cur.Grade)
		}
	}
	return nil
}

// Resolve maps a score to its grade band. Bands are scanned in descending
// MinScore order and the first band containing the score wins. When no band
// matches, the band with the lowest MinScore is returned and exact reports
// false; an empty table yields the FallbackBand sentinel.
func (t *GradingTable) Resolve(score float64) (band GradeBand, exact bool) {
	if len(t.Bands) == 0 {
		return FallbackBand, false
	}
	bands := make([]GradeBand, len(t.Bands))
	copy(bands, t.Bands)
	sort.Slice(bands, func(i, j int) bool { return bands[i].MinScore > bands[j].MinScore })

	for _, b := range bands {
		if b.MinScore <= score && score <= b.MaxScore {
			return b, true
		}
	}
	return bands[len(bands)-1], false
}
