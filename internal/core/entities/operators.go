package entities

import "github.com/globalhsr/hsrdb/internal/core"

func init() {
	registerOperators()
}

func registerOperators() {
	core.Register(core.EntityDefinition{
		Info: core.EntityInfo{
			Key:      "operators",
			Label:    "Operators",
			Singular: "Operator",
			Order:    2,
		},
		KeyFields: []string{"operatorID"},
		Columns: []core.Column{
			{Name: "operatorID", Label: "ID"},
			{Name: "operatorName", Label: "Operator"},
			{Name: "foundedYear", Label: "Founded"},
			{Name: "countryName", Label: "Country"},
		},
		ListSQL: `
			SELECT o.operatorID, o.operatorName, o.foundedYear, c.countryName
			FROM operators o
			JOIN countries c ON o.countryID = c.countryID
			ORDER BY o.operatorID`,
		EditSQL: `
			SELECT operatorID, operatorName, foundedYear, countryID
			FROM operators
			WHERE operatorID = $1`,
		Fields: []core.FieldSpec{
			{Name: "operatorName", Label: "Operator", Type: core.FieldText},
			{Name: "foundedYear", Label: "Founded", Type: core.FieldInt},
			{Name: "countryID", Label: "Country", Type: core.FieldRef, Lookup: countryLookup.Name},
		},
		Lookups: []core.Lookup{countryLookup},
		Procedures: map[core.Op]core.Procedure{
			core.OpCreate: {Name: "sp_CreateOperator", Params: []string{"operatorName", "foundedYear", "countryID"}},
			core.OpUpdate: {Name: "sp_UpdateOperator", Params: []string{"operatorID", "operatorName", "foundedYear", "countryID"}},
			core.OpDelete: {Name: "sp_DeleteOperator", Params: []string{"operatorID"}},
		},
	})
}
