package filter

import "github.com/TimurManjosov/recordfilter/internal/document"

const (
	fieldData      = "data"
	fieldCondition = "condition"
)

// Validate checks the request envelope. Both field checks always run so a
// request missing data and condition reports both problems.
func Validate(doc *document.Node) ErrorLog {
	var log ErrorLog
	if doc == nil {
		log.Add(MsgNotObject)
		return log
	}
	if doc.Get(fieldData).IsNull() {
		log.Add(MsgDataNull)
	}
	if doc.Get(fieldCondition).IsNull() {
		log.Add(MsgConditionNull)
	}
	return log
}
