package entities

import "github.com/globalhsr/hsrdb/internal/core"

func init() {
	registerLineStations()
}

func registerLineStations() {
	core.Register(core.EntityDefinition{
		Info: core.EntityInfo{
			Key:      "lineStations",
			Label:    "Line–Station Mapping",
			Singular: "Line–Station Mapping",
			Order:    7,
		},
		KeyFields: []string{"lineID", "stationID"},
		LegacyKeyFields: map[core.Op]string{
			core.OpDelete: "mapping",
		},
		Columns: []core.Column{
			{Name: "lineID", Label: "Line ID"},
			{Name: "stationID", Label: "Station ID"},
			{Name: "lineName", Label: "Line"},
			{Name: "stationName", Label: "Station"},
			{Name: "stopOrder", Label: "Stop"},
		},
		ListSQL: `
			SELECT ls.lineID, ls.stationID, rl.lineName, s.stationName, ls.stopOrder
			FROM lineStations ls
			JOIN railLines rl ON rl.lineID = ls.lineID
			JOIN stations s ON s.stationID = ls.stationID
			ORDER BY ls.lineID, ls.stationID`,
		EditSQL: `
			SELECT lineID, stationID, lineID, stationID, stopOrder
			FROM lineStations
			WHERE lineID = $1 AND stationID = $2`,
		Fields: []core.FieldSpec{
			{Name: "lineID", Label: "Line", Type: core.FieldRef, Lookup: lineLookup.Name},
			{Name: "stationID", Label: "Station", Type: core.FieldRef, Lookup: stationLookup.Name},
			{Name: "stopOrder", Label: "Stop order", Type: core.FieldInt, Optional: true},
		},
		Lookups: []core.Lookup{lineLookup, stationLookup},
		Procedures: map[core.Op]core.Procedure{
			core.OpCreate: {Name: "sp_CreateLineStation", Params: []string{"lineID", "stationID", "stopOrder"}},
			core.OpUpdate: {Name: "sp_UpdateLineStation", Params: []string{"oldLineID", "oldStationID", "newLineID", "newStationID", "stopOrder"}},
			core.OpDelete: {Name: "sp_DeleteLineStation", Params: []string{"lineID", "stationID"}},
		},
	})
}
