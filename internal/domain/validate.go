package domain

import (
	"fmt"
	"math"
)

// tempTolerance absorbs rounding in observational records when checking
// tmin <= tave <= tmax.
const tempTolerance = 1.0

// ValidateRainfall rejects physically impossible rainfall before
// computation. Missing days are fine; negative depths are not.
func ValidateRainfall(s DailySeries) error {
	for i, v := range s.Rain {
		if !math.IsNaN(v) && v < 0 {
			return fmt.Errorf("rainfall validation: negative depth %.2f mm on %s", v, s.Dates[i].Format(dateLayout))
		}
	}
	return nil
}

// ValidateTemperature checks tave against the daily extremes with a 1°C
// tolerance. In strict mode any inconsistency is a structural error; by
// default the count is returned as zero error and the inconsistent days
// simply participate as recorded, matching how observational archives are
// handled in practice.
func ValidateTemperature(s DailySeries, strict bool) error {
	if !strict {
		return nil
	}

	inconsistent := 0
	first := ""
	for i := range s.Dates {
		tave, tmax, tmin := s.TAve[i], s.TMax[i], s.TMin[i]
		bad := (!math.IsNaN(tave) && !math.IsNaN(tmax) && tave > tmax+tempTolerance) ||
			(!math.IsNaN(tave) && !math.IsNaN(tmin) && tave < tmin-tempTolerance)
		if bad {
			if inconsistent == 0 {
				first = s.Dates[i].Format(dateLayout)
			}
			inconsistent++
		}
	}
	if inconsistent > 0 {
		return fmt.Errorf("temperature validation: %d day(s) with tave outside [tmin-%.1f, tmax+%.1f], first on %s",
			inconsistent, tempTolerance, tempTolerance, first)
	}
	return nil
}
