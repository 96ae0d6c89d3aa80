package hostapp

import (
	"errors"
	"strconv"
)

// Area codes known to the host application.
const (
	AreaGlobal    = "global"
	AreaAdminhtml = "adminhtml"
	AreaFrontend  = "frontend"
	AreaCrontab   = "crontab"
)

// ErrAreaNotSet is returned by AreaCode before SetAreaCode was called.
var ErrAreaNotSet = errors.New("hostapp: area code is not set")

// AreaAlreadySetError is returned when the area code is changed after being set.
type AreaAlreadySetError struct{ Current, Requested string }

// Error implements the error interface.
func (e AreaAlreadySetError) Error() string {
	return "hostapp: area code already set to " + strconv.Quote(e.Current) + ", cannot switch to " + strconv.Quote(e.Requested)
}

// State holds the application area for the current process.
type State struct {
	area string
}

// SetAreaCode sets the area once. Setting the same code again is allowed.
func (s *State) SetAreaCode(code string) error {
	if code == "" {
		return errors.New("hostapp: empty area code")
	}
	if s.area != "" && s.area != code {
		return AreaAlreadySetError{Current: s.area, Requested: code}
	}
	s.area = code
	return nil
}

// AreaCode returns the current area.
func (s *State) AreaCode() (string, error) {
	if s.area == "" {
		return "", ErrAreaNotSet
	}
	return s.area, nil
}
