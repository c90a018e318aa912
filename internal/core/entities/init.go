// Package entities registers the Global HSR entity definitions with the core registry.
// Import it for side effects wherever the registry is used.
package entities

import "github.com/globalhsr/hsrdb/internal/core"

// Each entity file registers its definition from init().

// Shared lookups. Options are ordered by label for the dropdowns.
var (
	countryLookup = core.Lookup{
		Name: "countries",
		SQL:  `SELECT countryID, countryName FROM countries ORDER BY countryName`,
	}
	operatorLookup = core.Lookup{
		Name: "operators",
		SQL:  `SELECT operatorID, operatorName FROM operators ORDER BY operatorName`,
	}
	lineLookup = core.Lookup{
		Name: "railLines",
		SQL:  `SELECT lineID, lineName FROM railLines ORDER BY lineName`,
	}
	stationLookup = core.Lookup{
		Name: "stations",
		SQL:  `SELECT stationID, stationName FROM stations ORDER BY stationName`,
	}
	projectLookup = core.Lookup{
		Name: "projects",
		SQL:  `SELECT projectID, projectName FROM projects ORDER BY projectName`,
	}
)

// Continents and ProjectStatuses are the allowed values of the enum columns.
var (
	Continents      = []string{"Africa", "Asia", "Europe", "North America", "Oceania", "South America"}
	ProjectStatuses = []string{"Planned", "Under Construction", "Operational", "Suspended", "Cancelled"}
)
