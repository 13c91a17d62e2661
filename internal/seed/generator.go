package seed

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/okian/weekplan/internal/domain/schedule"
)

var (
	courses = []struct{ code, title string }{
		{"CS101", "Introduction to Programming"},
		{"CS204", "Data Structures"},
		{"MA110", "Calculus I"},
		{"MA221", "Linear Algebra"},
		{"PH101", "Physics I"},
		{"EN150", "Academic Writing"},
		{"EC201", "Microeconomics"},
		{"ST230", "Probability"},
	}
	eventTitles = []string{"Guest lecture", "Midterm", "Career fair", "Lab open day", "Club meeting", "Holiday"}
	durations   = []int{50, 60, 75, 90, 120}
)

// pick returns a uniform random index in [0, n).
func pick(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

func chance(p float64) bool {
	const scale = 1_000_000
	return float64(pick(scale)) < p*scale
}

// clock formats minutes after midnight as zero-padded "HH:MM".
func clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// generateClasses returns n classes; roughly invalidRatio of them have
// an end time that is not after the start time.
func generateClasses(n int, invalidRatio float64) []ClassRecord {
	out := make([]ClassRecord, n)
	for i := range out {
		c := courses[pick(len(courses))]
		day := schedule.Weekdays[pick(len(schedule.Weekdays))]
		start := 7*60 + pick(24)*30 // 07:00 to 18:30 on the half hour
		end := start + durations[pick(len(durations))]
		if chance(invalidRatio) {
			end = start - 30*pick(3)
		}
		out[i] = ClassRecord{
			Day:         day.String(),
			StartTime:   clock(start),
			EndTime:     clock(end),
			CourseCode:  c.code,
			CourseTitle: c.title,
			TeacherCode: fmt.Sprintf("T%03d", pick(40)),
			Room:        fmt.Sprintf("R-%d%02d", 1+pick(4), pick(30)),
			Section:     string(rune('A' + pick(4))),
		}
	}
	return out
}

// generateEvents returns n events dated within a week of cfg.Reference.
// About a third are untimed.
func generateEvents(cfg *Config, n int) []EventRecord {
	out := make([]EventRecord, n)
	for i := range out {
		day := cfg.Reference.AddDate(0, 0, pick(15)-7)
		e := EventRecord{
			Title: eventTitles[pick(len(eventTitles))],
			Date:  schedule.DateOf(day),
		}
		if !chance(1.0 / 3) {
			start := 8*60 + pick(20)*30
			s, f := clock(start), clock(start+60)
			e.StartTime, e.EndTime = &s, &f
		}
		if chance(0.5) {
			d := fmt.Sprintf("Generated event #%d", i)
			e.Description = &d
		}
		out[i] = e
	}
	return out
}

// isValidInterval mirrors the server-side rule so results can be predicted.
func isValidInterval(c ClassRecord) bool {
	return schedule.ValidateInterval(c.StartTime, c.EndTime) == nil
}
