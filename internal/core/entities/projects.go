package entities

import "github.com/globalhsr/hsrdb/internal/core"

func init() {
	registerProjects()
}

func registerProjects() {
	core.Register(core.EntityDefinition{
		Info: core.EntityInfo{
			Key:      "projects",
			Label:    "Projects",
			Singular: "Project",
			Order:    5,
		},
		KeyFields: []string{"projectID"},
		Columns: []core.Column{
			{Name: "projectID", Label: "ID"},
			{Name: "projectName", Label: "Project"},
			{Name: "status", Label: "Status"},
			{Name: "startYear", Label: "Start"},
			{Name: "endYear", Label: "End"},
		},
		ListSQL: `
			SELECT projectID, projectName, status, startYear, endYear
			FROM projects
			ORDER BY projectID`,
		EditSQL: `
			SELECT projectID, projectName, status, startYear, endYear
			FROM projects
			WHERE projectID = $1`,
		Fields: []core.FieldSpec{
			{Name: "projectName", Label: "Project", Type: core.FieldText},
			{Name: "status", Label: "Status", Type: core.FieldEnum, EnumValues: ProjectStatuses},
			{Name: "startYear", Label: "Start year", Type: core.FieldInt},
			{Name: "endYear", Label: "End year", Type: core.FieldInt, Optional: true},
		},
		Procedures: map[core.Op]core.Procedure{
			core.OpCreate: {Name: "sp_CreateProject", Params: []string{"projectName", "status", "startYear", "endYear"}},
			core.OpUpdate: {Name: "sp_UpdateProject", Params: []string{"projectID", "projectName", "status", "startYear", "endYear"}},
			core.OpDelete: {Name: "sp_DeleteProject", Params: []string{"projectID"}},
		},
	})
}
