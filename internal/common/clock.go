package common

import "time"

// Location is the fixed UTC+8 civil time all persisted timestamps use.
// Revoke-window comparisons must read the clock from here on both sides.
var Location = time.FixedZone("UTC+8", 8*60*60)

func Now() time.Time {
	return time.Now().In(Location)
}
