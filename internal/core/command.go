package core

import (
	"context"
	"fmt"
	"net/url"

	"github.com/globalhsr/hsrdb/internal/logging"
)

// Form field prefixes. Create forms use bare field names.
const (
	updatePrefix  = "update_"
	currentPrefix = "current_"
	deletePrefix  = "delete_"

	// legacyNewPrefix is the older spelling of updatePrefix for the new
	// values of a join row (new_projectID, new_lineID).
	legacyNewPrefix = "new_"
)

// Command is one write: a single stored-procedure call for an entity.
type Command struct {
	Entity string
	Op     Op
	Args   []any
}

// BuildCommand marshals submitted form values into a Command for def.
//
//	create: <field>...
//	update: current key, then update_<field>... (or new_<field>)
//	delete: delete_<key>...
//
// A single-column key is read from update_<key> on update; a composite
// key from current_<key> fields. Both fall back to the entity's legacy
// delimited field when the per-column fields are absent.
func BuildCommand(def EntityDefinition, op Op, form url.Values) (Command, error) {
	if !def.Supports(op) {
		return Command{}, fmt.Errorf("%w: %s %s", ErrUnsupportedOperation, op, def.Info.Key)
	}

	cmd := Command{Entity: def.Info.Key, Op: op}

	switch op {
	case OpCreate:
		args, err := fieldArgs(def.Fields, form)
		if err != nil {
			return Command{}, err
		}
		cmd.Args = args

	case OpUpdate:
		prefix := updatePrefix
		if def.Composite() {
			prefix = currentPrefix
		}
		key, err := KeyFromForm(def, form, prefix, def.LegacyKeyFields[OpUpdate])
		if err != nil {
			return Command{}, err
		}
		args, err := fieldArgs(def.Fields, form, updatePrefix, legacyNewPrefix)
		if err != nil {
			return Command{}, err
		}
		cmd.Args = append(key.Args(), args...)

	case OpDelete:
		key, err := KeyFromForm(def, form, deletePrefix, def.LegacyKeyFields[OpDelete])
		if err != nil {
			return Command{}, err
		}
		cmd.Args = key.Args()

	default:
		return Command{}, fmt.Errorf("%w: %s", ErrUnsupportedOperation, op)
	}

	return cmd, nil
}

// fieldArgs marshals one value per spec. Each field is read under the
// first prefix present in the form; with no prefixes the bare name is used.
func fieldArgs(specs []FieldSpec, form url.Values, prefixes ...string) ([]any, error) {
	if len(prefixes) == 0 {
		prefixes = []string{""}
	}
	args := make([]any, 0, len(specs))
	for _, spec := range specs {
		v, err := ToParam(spec, formValue(form, spec.Name, prefixes))
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

func formValue(form url.Values, name string, prefixes []string) string {
	for _, p := range prefixes {
		if vs, ok := form[p+name]; ok && len(vs) > 0 {
			return vs[0]
		}
	}
	return ""
}

// Procedure resolves the stored procedure the command calls.
func (c Command) Procedure() (Procedure, error) {
	def, ok := Get(c.Entity)
	if !ok {
		return Procedure{}, fmt.Errorf("%w: %s", ErrUnknownEntity, c.Entity)
	}
	proc, ok := def.Procedures[c.Op]
	if !ok {
		return Procedure{}, fmt.Errorf("%w: %s %s", ErrUnsupportedOperation, c.Op, c.Entity)
	}
	return proc, nil
}

// Execute runs the command as one CALL with bind parameters.
// Driver errors are returned wrapped with the procedure name; there is no retry.
func (s *Service) Execute(ctx context.Context, cmd Command) error {
	proc, err := cmd.Procedure()
	if err != nil {
		return err
	}
	if len(cmd.Args) != proc.Arity() {
		return fmt.Errorf("%w: %s takes %d, got %d", ErrArity, proc.Name, proc.Arity(), len(cmd.Args))
	}

	log := logging.WithFields(ctx,
		"entity", cmd.Entity,
		"op", string(cmd.Op),
		"procedure", proc.Name,
		"client_ip", ClientIPFromContext(ctx),
	)

	if _, err := s.db.Exec(ctx, proc.CallSQL(), cmd.Args...); err != nil {
		log.Warn("write failed", "reason", string(Classify(err)), "error", err)
		return fmt.Errorf("%s: %w", proc.Name, err)
	}
	log.Info("write applied", "user_agent", UserAgentFromContext(ctx))
	return nil
}
