package vanilla

import (
	"strconv"
)

func componentControlID(index int) string {
	return "rowform-field-" + strconv.Itoa(index)
}

func componentLabelID(index int) string {
	return componentControlID(index) + "-label"
}
