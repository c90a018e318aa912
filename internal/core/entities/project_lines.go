package entities

import "github.com/globalhsr/hsrdb/internal/core"

func init() {
	registerProjectLines()
}

// Project–line mappings have no attributes of their own. The form fields
// are the new key; update moves a mapping from the current key to them.
func registerProjectLines() {
	core.Register(core.EntityDefinition{
		Info: core.EntityInfo{
			Key:      "projectLines",
			Label:    "Project–Line Mapping",
			Singular: "Project–Line Mapping",
			Order:    6,
		},
		KeyFields: []string{"projectID", "lineID"},
		LegacyKeyFields: map[core.Op]string{
			core.OpUpdate: "currentMapping",
			core.OpDelete: "lineID_projectID_pair",
		},
		Columns: []core.Column{
			{Name: "projectID", Label: "Project ID"},
			{Name: "lineID", Label: "Line ID"},
			{Name: "projectName", Label: "Project"},
			{Name: "lineName", Label: "Line"},
		},
		ListSQL: `
			SELECT pl.projectID, pl.lineID, p.projectName, r.lineName
			FROM projectLines pl
			JOIN projects p ON pl.projectID = p.projectID
			JOIN railLines r ON pl.lineID = r.lineID
			ORDER BY pl.projectID, pl.lineID`,
		EditSQL: `
			SELECT projectID, lineID, projectID, lineID
			FROM projectLines
			WHERE projectID = $1 AND lineID = $2`,
		Fields: []core.FieldSpec{
			{Name: "projectID", Label: "Project", Type: core.FieldRef, Lookup: projectLookup.Name},
			{Name: "lineID", Label: "Line", Type: core.FieldRef, Lookup: lineLookup.Name},
		},
		Lookups: []core.Lookup{projectLookup, lineLookup},
		Procedures: map[core.Op]core.Procedure{
			core.OpCreate: {Name: "sp_CreateProjectLine", Params: []string{"projectID", "lineID"}},
			core.OpUpdate: {Name: "sp_UpdateProjectLine", Params: []string{"oldProjectID", "oldLineID", "newProjectID", "newLineID"}},
			core.OpDelete: {Name: "sp_DeleteProjectLine", Params: []string{"projectID", "lineID"}},
		},
	})
}
