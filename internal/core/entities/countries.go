package entities

import "github.com/globalhsr/hsrdb/internal/core"

func init() {
	registerCountries()
}

func registerCountries() {
	core.Register(core.EntityDefinition{
		Info: core.EntityInfo{
			Key:      "countries",
			Label:    "Countries",
			Singular: "Country",
			Order:    1,
		},
		KeyFields: []string{"countryID"},
		Columns: []core.Column{
			{Name: "countryID", Label: "ID"},
			{Name: "countryName", Label: "Country"},
			{Name: "continent", Label: "Continent"},
			{Name: "populationMillions", Label: "Population (M)"},
		},
		ListSQL: `
			SELECT countryID, countryName, continent, populationMillions
			FROM countries
			ORDER BY countryID`,
		EditSQL: `
			SELECT countryID, countryName, continent, populationMillions
			FROM countries
			WHERE countryID = $1`,
		Fields: []core.FieldSpec{
			{Name: "countryName", Label: "Country", Type: core.FieldText},
			{Name: "continent", Label: "Continent", Type: core.FieldEnum, EnumValues: Continents},
			{Name: "populationMillions", Label: "Population (millions)", Type: core.FieldDecimal},
		},
		Procedures: map[core.Op]core.Procedure{
			core.OpCreate: {Name: "sp_CreateCountry", Params: []string{"countryName", "continent", "populationMillions"}},
			core.OpUpdate: {Name: "sp_UpdateCountry", Params: []string{"countryID", "countryName", "continent", "populationMillions"}},
			core.OpDelete: {Name: "sp_DeleteCountry", Params: []string{"countryID"}},
		},
	})
}
