package seasonal

import (
	"slices"
	"strings"
	"time"
)

type Season string

const (
	Spring    Season = "Spring"
	Summer    Season = "Summer"
	Fall      Season = "Fall"
	Winter    Season = "Winter"
	Monsoon   Season = "Monsoon Season"
	DrySeason Season = "Dry Season"
	WetSeason Season = "Wet Season"
)

type Region string

const (
	Europe   Region = "europe"
	Asia     Region = "asia"
	Tropical Region = "tropical"
	General  Region = "general"
)

type Hemisphere string

const (
	Northern Hemisphere = "northern"
	Southern Hemisphere = "southern"
)

// Icon описывает категорию погодной иконки для клиента.
type Icon string

const (
	IconSun       Icon = "sun"
	IconCloud     Icon = "cloud"
	IconCloudRain Icon = "cloud-rain"
	IconSnowflake Icon = "snowflake"
)

type Weather struct {
	Temperature string `json:"temperature"`
	Conditions  string `json:"conditions"`
	Rainfall    string `json:"rainfall"`
	Icon        Icon   `json:"icon"`
}

type Recommendation struct {
	Season                Season     `json:"season"`
	Region                Region     `json:"region"`
	Hemisphere            Hemisphere `json:"hemisphere"`
	Weather               Weather    `json:"weather"`
	RecommendedActivities []string   `json:"recommended_activities"`
	AvoidActivities       []string   `json:"avoid_activities"`
	EssentialPacking      []string   `json:"essential_packing"`
	OptionalPacking       []string   `json:"optional_packing"`
	Tips                  []string   `json:"tips"`
	Alerts                []string   `json:"alerts"`
}

var southernMarkers = []string{"australia", "new zealand", "argentina", "chile", "south africa"}

// Порядок важен: срабатывает первый совпавший регион.
var regionMarkers = []struct {
	region  Region
	markers []string
}{
	{region: Europe, markers: []string{"europe", "paris", "london", "rome"}},
	{region: Asia, markers: []string{"asia", "japan", "thailand", "india"}},
	{region: Tropical, markers: []string{"tropical", "caribbean", "hawaii"}},
}

// Recommend возвращает сезонные рекомендации для направления и даты поездки.
func Recommend(destination string, date time.Time) Recommendation {
	hemisphere := HemisphereOf(destination)
	month := date.Month()
	season := SeasonOf(hemisphere, month)

	rec := resolve(RegionOf(destination), season, month)
	rec.Hemisphere = hemisphere
	return rec
}

// HemisphereOf определяет полушарие по вхождению маркеров в название направления.
func HemisphereOf(destination string) Hemisphere {
	if containsAny(strings.ToLower(destination), southernMarkers) {
		return Southern
	}
	return Northern
}

// SeasonOf возвращает календарный сезон для месяца с учетом полушария.
func SeasonOf(hemisphere Hemisphere, month time.Month) Season {
	var season Season
	switch month {
	case time.March, time.April, time.May:
		season = Spring
	case time.June, time.July, time.August:
		season = Summer
	case time.September, time.October, time.November:
		season = Fall
	default:
		season = Winter
	}

	if hemisphere == Southern {
		return opposite[season]
	}
	return season
}

var opposite = map[Season]Season{
	Spring: Fall,
	Summer: Winter,
	Fall:   Spring,
	Winter: Summer,
}

// RegionOf выбирает региональный набор правил, General если ничего не совпало.
func RegionOf(destination string) Region {
	lower := strings.ToLower(destination)
	for _, group := range regionMarkers {
		if containsAny(lower, group.markers) {
			return group.region
		}
	}
	return General
}

func resolve(region Region, season Season, month time.Month) Recommendation {
	switch region {
	case Europe:
		if c, ok := europe[season]; ok {
			return c.build(Europe, season)
		}
	case Asia:
		if month >= time.June && month <= time.September {
			return asiaMonsoon.build(Asia, Monsoon)
		}
	case Tropical:
		if month >= time.November || month <= time.April {
			return tropicalDry.build(Tropical, DrySeason)
		}
		return tropicalWet.build(Tropical, WetSeason)
	}

	return general.build(General, season)
}

func containsAny(s string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

// content хранит неизменяемую часть рекомендации; build отдает копии срезов.
type content struct {
	weather     Weather
	recommended []string
	avoid       []string
	essential   []string
	optional    []string
	tips        []string
	alerts      []string
}

func (c content) build(region Region, season Season) Recommendation {
	return Recommendation{
		Season:                season,
		Region:                region,
		Weather:               c.weather,
		RecommendedActivities: slices.Clone(c.recommended),
		AvoidActivities:       slices.Clone(c.avoid),
		EssentialPacking:      slices.Clone(c.essential),
		OptionalPacking:       slices.Clone(c.optional),
		Tips:                  slices.Clone(c.tips),
		Alerts:                slices.Clone(c.alerts),
	}
}
