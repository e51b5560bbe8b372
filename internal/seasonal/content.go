package seasonal

var europe = map[Season]content{
	Spring: {
		weather: Weather{
			Temperature: "10-18°C (50-65°F)",
			Conditions:  "Mild with occasional rain",
			Rainfall:    "Moderate",
			Icon:        IconCloud,
		},
		recommended: []string{"City walking tours", "Museum visits", "Garden tours", "Outdoor cafes", "Photography"},
		avoid:       []string{"Beach activities", "Outdoor swimming", "Heavy hiking"},
		essential:   []string{"Light jacket", "Umbrella", "Comfortable walking shoes", "Layers"},
		optional:    []string{"Light sweater", "Scarf", "Waterproof jacket"},
		tips: []string{
			"Book accommodations early as spring is popular",
			"Pack layers for changing weather",
			"Many attractions have shorter queues than summer",
		},
		alerts: []string{"Variable weather - check forecasts daily"},
	},
	Summer: {
		weather: Weather{
			Temperature: "20-28°C (68-82°F)",
			Conditions:  "Warm and generally sunny",
			Rainfall:    "Low to moderate",
			Icon:        IconSun,
		},
		recommended: []string{"Outdoor festivals", "Beach visits", "Hiking", "Outdoor dining", "Sightseeing"},
		avoid:       []string{"Indoor activities during peak hours"},
		essential:   []string{"Sunscreen", "Sunglasses", "Light clothing", "Comfortable sandals"},
		optional:    []string{"Hat", "Light cardigan for evenings", "Swimwear"},
		tips: []string{
			"Book everything well in advance - peak season",
			"Start sightseeing early to avoid crowds",
			"Stay hydrated and take breaks in shade",
		},
		alerts: []string{"Peak tourist season - expect crowds and higher prices"},
	},
	Fall: {
		weather: Weather{
			Temperature: "8-16°C (46-61°F)",
			Conditions:  "Cool with increasing rain",
			Rainfall:    "Moderate to high",
			Icon:        IconCloudRain,
		},
		recommended: []string{"Museum visits", "Indoor attractions", "Food tours", "Cultural events"},
		avoid:       []string{"Outdoor picnics", "Beach activities"},
		essential:   []string{"Warm jacket", "Waterproof shoes", "Umbrella", "Warm layers"},
		optional:    []string{"Gloves", "Warm hat", "Thermal underwear"},
		tips: []string{
			"Great time for indoor cultural activities",
			"Fewer crowds than summer",
			"Check opening hours - some attractions have reduced schedules",
		},
		alerts: []string{"Increasing rainfall - pack waterproof gear"},
	},
	Winter: {
		weather: Weather{
			Temperature: "2-8°C (36-46°F)",
			Conditions:  "Cold with possible snow",
			Rainfall:    "Low, but snow possible",
			Icon:        IconSnowflake,
		},
		recommended: []string{"Christmas markets", "Museums", "Indoor attractions", "Cozy cafes", "Winter festivals"},
		avoid:       []string{"Outdoor swimming", "Long outdoor walks", "Beach activities"},
		essential:   []string{"Heavy coat", "Warm boots", "Gloves", "Warm hat", "Thermal layers"},
		optional:    []string{"Scarf", "Hand warmers", "Waterproof gloves"},
		tips: []string{
			"Many outdoor attractions may be closed",
			"Shorter daylight hours - plan accordingly",
			"Great time for indoor cultural experiences",
		},
		alerts: []string{"Cold weather - dress warmly", "Some attractions may have limited hours"},
	},
}

var asiaMonsoon = content{
	weather: Weather{
		Temperature: "25-32°C (77-90°F)",
		Conditions:  "Hot and humid with heavy rain",
		Rainfall:    "Very high",
		Icon:        IconCloudRain,
	},
	recommended: []string{"Indoor attractions", "Covered markets", "Temples", "Museums"},
	avoid:       []string{"Outdoor trekking", "Beach activities", "Street food tours"},
	essential:   []string{"Waterproof jacket", "Quick-dry clothes", "Waterproof bag", "Umbrella"},
	optional:    []string{"Rain boots", "Waterproof phone case"},
	tips: []string{
		"Plan indoor activities during heavy rain periods",
		"Book covered transportation",
		"Keep electronics in waterproof bags",
	},
	alerts: []string{"Monsoon season - expect heavy rainfall and flooding"},
}

var tropicalDry = content{
	weather: Weather{
		Temperature: "24-30°C (75-86°F)",
		Conditions:  "Warm and sunny",
		Rainfall:    "Low",
		Icon:        IconSun,
	},
	recommended: []string{"Beach activities", "Water sports", "Hiking", "Outdoor dining"},
	avoid:       []string{"Indoor activities during peak sun"},
	essential:   []string{"Sunscreen", "Swimwear", "Light clothing", "Sandals"},
	optional:    []string{"Hat", "Reef-safe sunscreen", "Beach towel"},
	tips:        []string{"Perfect weather for outdoor activities", "Book water activities in advance"},
	alerts:      []string{"Peak season - book early"},
}

var tropicalWet = content{
	weather: Weather{
		Temperature: "24-30°C (75-86°F)",
		Conditions:  "Hot and humid with rain",
		Rainfall:    "High",
		Icon:        IconCloudRain,
	},
	recommended: []string{"Indoor attractions", "Covered activities", "Spa treatments"},
	avoid:       []string{"Outdoor hiking", "Beach activities during storms"},
	essential:   []string{"Waterproof jacket", "Quick-dry clothes", "Umbrella"},
	optional:    []string{"Rain boots", "Waterproof bag"},
	tips:        []string{"Plan flexible indoor alternatives", "Rain usually comes in short bursts"},
	alerts:      []string{"Wet season - expect afternoon storms"},
}

var general = content{
	weather: Weather{
		Temperature: "Variable",
		Conditions:  "Check local weather forecast",
		Rainfall:    "Variable",
		Icon:        IconCloud,
	},
	recommended: []string{"Research local seasonal activities", "Check weather-dependent attractions"},
	avoid:       []string{"Plan flexible alternatives for weather changes"},
	essential:   []string{"Weather-appropriate clothing", "Comfortable shoes", "Layers"},
	optional:    []string{"Umbrella", "Light jacket"},
	tips: []string{
		"Research local weather patterns for your specific destination",
		"Pack versatile clothing for changing conditions",
		"Check local events and seasonal attractions",
	},
	alerts: []string{"Check local weather forecasts before departure"},
}
