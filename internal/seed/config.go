// Package seed fills a running planner with generated classes and events
// over HTTP and then checks that every read endpoint honours the schedule
// ordering rules.
package seed

import "time"

// Config holds configuration for a seeding run.
type Config struct {
	BaseURL      string        // Base URL of the service
	NumClasses   int           // Number of classes to generate
	NumEvents    int           // Number of events to generate
	InvalidRatio float64       // Share of classes generated with an inverted interval
	Workers      int           // Number of concurrent submitters
	Timeout      time.Duration // HTTP request timeout
	Reference    time.Time     // Events are dated around this day
	OutputFile   string        // Where generated records are written; empty skips saving
	Verbose      bool          // Log every rejected submission
}

// ClassRecord is a class as submitted to POST /classes.
type ClassRecord struct {
	Day         string `json:"day"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	CourseCode  string `json:"course_code"`
	CourseTitle string `json:"course_title"`
	TeacherCode string `json:"teacher_code"`
	Room        string `json:"room"`
	Section     string `json:"section"`
}

// EventRecord is an event as submitted to POST /events.
type EventRecord struct {
	Title       string  `json:"event_title"`
	Date        string  `json:"event_date"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	Description *string `json:"description"`
}

// Stats holds run statistics.
type Stats struct {
	ClassesGenerated int
	EventsGenerated  int
	Submitted        int
	Created          int
	Rejected         int // 4xx answers, expected for invalid intervals
	Failed           int
	ChecksPassed     int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
