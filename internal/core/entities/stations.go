package entities

import "github.com/globalhsr/hsrdb/internal/core"

func init() {
	registerStations()
}

func registerStations() {
	core.Register(core.EntityDefinition{
		Info: core.EntityInfo{
			Key:      "stations",
			Label:    "Stations",
			Singular: "Station",
			Order:    4,
		},
		KeyFields: []string{"stationID"},
		Columns: []core.Column{
			{Name: "stationID", Label: "ID"},
			{Name: "stationName", Label: "Station"},
			{Name: "city", Label: "City"},
			{Name: "countryName", Label: "Country"},
		},
		ListSQL: `
			SELECT s.stationID, s.stationName, s.city, c.countryName
			FROM stations s
			JOIN countries c ON s.countryID = c.countryID
			ORDER BY s.stationID`,
		EditSQL: `
			SELECT stationID, stationName, city, countryID
			FROM stations
			WHERE stationID = $1`,
		Fields: []core.FieldSpec{
			{Name: "stationName", Label: "Station", Type: core.FieldText},
			{Name: "city", Label: "City", Type: core.FieldText},
			{Name: "countryID", Label: "Country", Type: core.FieldRef, Lookup: countryLookup.Name},
		},
		Lookups: []core.Lookup{countryLookup},
		Procedures: map[core.Op]core.Procedure{
			core.OpCreate: {Name: "sp_CreateStation", Params: []string{"stationName", "city", "countryID"}},
			core.OpUpdate: {Name: "sp_UpdateStation", Params: []string{"stationID", "stationName", "city", "countryID"}},
			core.OpDelete: {Name: "sp_DeleteStation", Params: []string{"stationID"}},
		},
	})
}
