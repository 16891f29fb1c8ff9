package sqlite

import "fmt"

// maxIdentifierLen bounds dataset names so generated table names stay well
// within SQLite's identifier limits.
const maxIdentifierLen = 48

// Identifier is a validated dataset name that is safe to splice into SQL
// text. Every dynamic table reference in this package goes through it.
type Identifier string

// ParseIdentifier validates a dataset name: lowercase letters, digits and
// underscores, starting with a letter, at most maxIdentifierLen characters.
func ParseIdentifier(name string) (Identifier, error) {
	if name == "" {
		return "", fmt.Errorf("sqlite: empty dataset name")
	}
	if len(name) > maxIdentifierLen {
		return "", fmt.Errorf("sqlite: dataset name %q exceeds %d characters", name, maxIdentifierLen)
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case (r == '_' || (r >= '0' && r <= '9')) && i > 0:
		default:
			return "", fmt.Errorf("sqlite: invalid dataset name %q", name)
		}
	}
	return Identifier(name), nil
}

// Table returns the chunk table name for the dataset.
func (id Identifier) Table() string { return "dataset_" + string(id) }
