package game

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidTeam     = errors.New("team name must be 3-24 letters, digits, or underscores")
	ErrTeamNotFound    = errors.New("team not found")
	ErrNoSession       = errors.New("no active session")
	ErrSessionExists   = errors.New("session already in progress")
	ErrAlreadyPlayed   = errors.New("team has already completed its run")
	ErrUnknownIndustry = errors.New("unknown industry")
)

var teamRE = regexp.MustCompile(`^[a-zA-Z0-9_]{3,24}$`)

func ValidateTeamName(name string) error {
	if !teamRE.MatchString(strings.TrimSpace(name)) {
		return ErrInvalidTeam
	}
	return nil
}
