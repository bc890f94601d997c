package models

// Weather is the weather tag of an entry
type Weather string

const (
	WeatherSunny  Weather = "sunny"
	WeatherCloudy Weather = "cloudy"
	WeatherRainy  Weather = "rainy"
	WeatherSnowy  Weather = "snowy"
)

// Mood is the mood tag of an entry
type Mood string

const (
	MoodHappy Mood = "happy"
	MoodLoved Mood = "loved"
	MoodOkay  Mood = "okay"
	MoodSad   Mood = "sad"
)

// Company is the company tag of an entry
type Company string

const (
	CompanyAlone   Company = "alone"
	CompanyFamily  Company = "family"
	CompanyFriends Company = "friends"
	CompanyPartner Company = "partner"
)

// Entry is one diary record. Date is the "M/D/YYYY" key used by the history lookup;
// Timestamp is the wall-clock time of the save ("3:04:05 PM").
type Entry struct {
	ID        int64   `json:"id,omitempty"`
	Date      string  `json:"date"`
	Weather   Weather `json:"weather,omitempty"`
	Mood      Mood    `json:"mood,omitempty"`
	Company   Company `json:"company,omitempty"`
	Text      string  `json:"text"`
	Timestamp string  `json:"timestamp"`
}
