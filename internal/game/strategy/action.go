package strategy

import "fmt"

type Action int

const (
	Hit Action = iota
	Stand
	Double
	Split
	Surrender
)

var actionNames = [...]string{
	Hit:       "HIT",
	Stand:     "STAND",
	Double:    "DOUBLE",
	Split:     "SPLIT",
	Surrender: "SURRENDER",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

func (a Action) MarshalText() ([]byte, error) {
	if a < 0 || int(a) >= len(actionNames) {
		return nil, fmt.Errorf("unknown action %d", int(a))
	}
	return []byte(actionNames[a]), nil
}

// Rules are the table options that gate DOUBLE, SPLIT and SURRENDER.
type Rules struct {
	CanDouble    bool `json:"canDouble"`
	CanSplit     bool `json:"canSplit"`
	CanSurrender bool `json:"canSurrender"`
}

// AllowAll permits every option.
var AllowAll = Rules{CanDouble: true, CanSplit: true, CanSurrender: true}
