package diary

import "github.com/benvon/deerdiary/internal/models"

// SampleEntries are the demo entries the history view starts with when seeding is enabled
func SampleEntries() []models.Entry {
	return []models.Entry{
		{
			Date:      "9/8/2025",
			Weather:   models.WeatherSunny,
			Mood:      models.MoodHappy,
			Company:   models.CompanyFriends,
			Text:      "Had a wonderful day at the park with my friends! We played frisbee and had a picnic.",
			Timestamp: "2:30 PM",
		},
		{
			Date:      "9/7/2025",
			Weather:   models.WeatherCloudy,
			Mood:      models.MoodOkay,
			Company:   models.CompanyAlone,
			Text:      "Quiet day at home reading a good book. Sometimes solitude is exactly what you need.",
			Timestamp: "7:45 PM",
		},
	}
}
