package db

import "time"

// Schema defines the SQLite database schema for the calorie log.
// It creates the entries table with a timestamp index for day-range queries,
// the key/value settings table, and the images table holding photo bytes.
const Schema = `
CREATE TABLE IF NOT EXISTS entries (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    calories REAL NOT NULL,
    description TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT '' CHECK(category IN ('', 'Breakfast', 'Lunch', 'Dinner', 'Snack')),
    timestamp INTEGER NOT NULL,
    image_id TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_entries_timestamp ON entries(timestamp);
CREATE INDEX IF NOT EXISTS idx_entries_image_id ON entries(image_id);

CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value INTEGER NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS images (
    id TEXT PRIMARY KEY,
    data BLOB NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// Setting keys
const (
	SettingCalorieLimit = "calorieLimit"
)

// DefaultCalorieLimit is returned when no limit has been saved.
const DefaultCalorieLimit = 3000

// Entry represents one logged food item
type Entry struct {
	ID          int64
	Calories    float64
	Description string
	Category    Category
	// Timestamp is epoch milliseconds.
	Timestamp int64
	// ImageID references a row in images; empty when no photo is attached.
	ImageID string
}

// Time returns the entry timestamp in the local time zone.
func (e *Entry) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Label renders the description with its category tag, e.g. "[Lunch] Salad".
func (e *Entry) Label() string {
	if e.Category == CategoryNone {
		return e.Description
	}
	return "[" + string(e.Category) + "] " + e.Description
}

// NewEntry holds the fields supplied when logging a meal
type NewEntry struct {
	Calories    float64
	Description string
	Category    Category
	// Timestamp is epoch milliseconds; zero means now.
	Timestamp int64
}

// DayBounds returns the epoch-millisecond window [start, end) covering the
// calendar day of t in t's location.
func DayBounds(t time.Time) (int64, int64) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 0, 1)
	return start.UnixMilli(), end.UnixMilli()
}
