package models

// TagOption is one selectable value for weather, mood or company
type TagOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Color string `json:"color,omitempty"`
}

// WeatherOptions lists the selectable weather tags in display order
var WeatherOptions = []TagOption{
	{Value: string(WeatherSunny), Label: "Sunny", Icon: "sun"},
	{Value: string(WeatherCloudy), Label: "Cloudy", Icon: "cloud"},
	{Value: string(WeatherRainy), Label: "Rainy", Icon: "cloud-rain"},
	{Value: string(WeatherSnowy), Label: "Snowy", Icon: "sun-snow"},
}

// MoodOptions lists the selectable mood tags in display order
var MoodOptions = []TagOption{
	{Value: string(MoodHappy), Label: "Happy", Icon: "smile", Color: "bg-green-500/20 text-green-300"},
	{Value: string(MoodLoved), Label: "Loved", Icon: "heart", Color: "bg-pink-500/20 text-pink-300"},
	{Value: string(MoodOkay), Label: "Okay", Icon: "meh", Color: "bg-yellow-500/20 text-yellow-300"},
	{Value: string(MoodSad), Label: "Sad", Icon: "frown", Color: "bg-blue-500/20 text-blue-300"},
}

// CompanyOptions lists the selectable company tags in display order
var CompanyOptions = []TagOption{
	{Value: string(CompanyAlone), Label: "Alone", Icon: "user"},
	{Value: string(CompanyFamily), Label: "Family", Icon: "users"},
	{Value: string(CompanyFriends), Label: "Friends", Icon: "user-plus"},
	{Value: string(CompanyPartner), Label: "Partner", Icon: "heart"},
}

// TagCatalog groups the three option lists
type TagCatalog struct {
	Weather []TagOption `json:"weather"`
	Mood    []TagOption `json:"mood"`
	Company []TagOption `json:"company"`
}

// Catalog returns the full tag catalog
func Catalog() TagCatalog {
	return TagCatalog{
		Weather: WeatherOptions,
		Mood:    MoodOptions,
		Company: CompanyOptions,
	}
}

// ResolveOption finds the option with the given value. Returns false if none matches.
func ResolveOption(options []TagOption, value string) (TagOption, bool) {
	for _, option := range options {
		if option.Value == value {
			return option, true
		}
	}
	return TagOption{}, false
}
