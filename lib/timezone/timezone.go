package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Asia/Seoul")
	if err != nil {
		panic(err)
	}
}

// force timezone to be KST regardless of where the job runs, the
// retailer consoles and the report sheet both live on the korean
// calendar day so using the host timezone would shift rows around
// midnight
func Now() time.Time {
	return time.Now().In(Location)
}

// Yesterday returns the previous KST calendar day as YYYY-MM-DD,
// which is the day every scraper reports on.
func Yesterday() string {
	return Now().AddDate(0, 0, -1).Format(time.DateOnly)
}
