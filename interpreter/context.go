package interpreter

import (
	"steptrace/parser"
	"steptrace/validator"
)

// Load validates and parses text and starts a fresh session. Validation
// failures are returned as *validator.Error, structural ones as
// *parser.ParseError.
func Load(text string) (*Session, error) {
	if err := validator.Validate(text).Err(); err != nil {
		return nil, err
	}
	prog, err := parser.Parse(text)
	if err != nil {
		return nil, err
	}
	return NewSession(prog), nil
}

// Restart re-reads the program's original text and discards all runtime
// state, including undo history.
func (s *Session) Restart() error {
	return s.LoadProgram(s.prog.Source)
}

// LoadProgram replaces the program and all state. If text does not load,
// the session is left as it was.
func (s *Session) LoadProgram(text string) error {
	fresh, err := Load(text)
	if err != nil {
		return err
	}
	*s = *fresh
	return nil
}
