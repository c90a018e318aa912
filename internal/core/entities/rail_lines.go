package entities

import "github.com/globalhsr/hsrdb/internal/core"

func init() {
	registerRailLines()
}

func registerRailLines() {
	core.Register(core.EntityDefinition{
		Info: core.EntityInfo{
			Key:      "railLines",
			Label:    "Rail Lines",
			Singular: "Rail Line",
			Order:    3,
		},
		KeyFields: []string{"lineID"},
		Columns: []core.Column{
			{Name: "lineID", Label: "ID"},
			{Name: "lineName", Label: "Line"},
			{Name: "maxSpeed", Label: "Max Speed (km/h)"},
			{Name: "lengthKM", Label: "Length (km)"},
			{Name: "operatorName", Label: "Operator"},
		},
		ListSQL: `
			SELECT r.lineID, r.lineName, r.maxSpeed, r.lengthKM, o.operatorName
			FROM railLines r
			JOIN operators o ON r.operatorID = o.operatorID
			ORDER BY r.lineID`,
		EditSQL: `
			SELECT lineID, lineName, maxSpeed, lengthKM, operatorID
			FROM railLines
			WHERE lineID = $1`,
		Fields: []core.FieldSpec{
			{Name: "lineName", Label: "Line", Type: core.FieldText},
			{Name: "maxSpeed", Label: "Max speed (km/h)", Type: core.FieldInt},
			{Name: "lengthKM", Label: "Length (km)", Type: core.FieldDecimal},
			{Name: "operatorID", Label: "Operator", Type: core.FieldRef, Lookup: operatorLookup.Name},
		},
		Lookups: []core.Lookup{operatorLookup},
		Procedures: map[core.Op]core.Procedure{
			core.OpCreate: {Name: "sp_CreateRailLine", Params: []string{"lineName", "maxSpeed", "lengthKM", "operatorID"}},
			core.OpUpdate: {Name: "sp_UpdateRailLine", Params: []string{"lineID", "lineName", "maxSpeed", "lengthKM", "operatorID"}},
			core.OpDelete: {Name: "sp_DeleteRailLine", Params: []string{"lineID"}},
		},
	})
}
