package filter

import (
	"strings"
)

// Error log messages. Clients match on these strings, keep them stable.
const (
	MsgNotObject      = "Not json type object received"
	MsgDataNull       = "Data node is null"
	MsgConditionNull  = "Condition node is null"
	MsgDataNotList    = "Data is not a list"
	MsgFieldNotInData = "Not in every data list field for filtering exists"
)

// ErrorLog is the ordered list of validation and compilation messages
// gathered for one request.
type ErrorLog []string

// Add appends msg to the log.
func (l *ErrorLog) Add(msg string) {
	*l = append(*l, msg)
}

// Empty reports whether no message was recorded.
func (l ErrorLog) Empty() bool { return len(l) == 0 }

// Contains reports whether msg was recorded at least once.
func (l ErrorLog) Contains(msg string) bool {
	for _, m := range l {
		if m == msg {
			return true
		}
	}
	return false
}

// Error carries a non-empty ErrorLog as a Go error.
type Error struct {
	Log ErrorLog
}

func (e *Error) Error() string {
	return "filter: " + strings.Join(e.Log, "; ")
}
