// Package core holds the request-independent logic of the HSR reference
// database. It has no HTTP dependencies and is driven by the web server,
// the admin CLI, and tests alike.
//
// # Entity Registry
//
// Each entity registers an [EntityDefinition] at init time from the
// entities package. A definition carries the list and edit queries, the
// form fields in procedure parameter order, dropdown lookups, and one
// stored [Procedure] per write operation:
//
//	core.Register(core.EntityDefinition{
//	    Info:      core.EntityInfo{Key: "countries", Label: "Countries"},
//	    KeyFields: []string{"countryID"},
//	    Fields: []core.FieldSpec{
//	        {Name: "countryName", Type: core.FieldText},
//	    },
//	    Procedures: map[core.Op]core.Procedure{
//	        core.OpDelete: {Name: "sp_DeleteCountry", Params: []string{"countryID"}},
//	    },
//	})
//
// Register checks that every procedure's arity matches the key and field
// lists, so a definition cannot drift from its own form.
//
// # Commands
//
// Writes are typed [Command] values (entity, operation, positional args)
// built from form input by [BuildCommand] and run by [Service.Execute],
// which issues a single CALL with bind parameters. Nothing is retried and
// nothing spans more than one procedure call; validation and integrity
// live in the procedures.
//
// # Keys
//
// Join entities are keyed by two ids. Forms send them as separate fields;
// a single delimited value ("3,12" or "1-2") is also accepted and must
// split into exactly two positive integers, otherwise [ErrInvalidKey].
//
// # Result Flags
//
// Failures are classified by SQLSTATE into a [Reason] and turned into the
// redirect flag by [ErrorFlag]: duplicate-create, duplicate-update,
// invalid-input, or <op>-failed.
package core
