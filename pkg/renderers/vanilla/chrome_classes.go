package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassDialog      ChromeClass = "rowform-dialog"
	ClassForm        ChromeClass = "rowform-form"
	ClassHeader      ChromeClass = "rowform-header"
	ClassFields      ChromeClass = "rowform-fields"
	ClassField       ChromeClass = "rowform-field"
	ClassIcon        ChromeClass = "rowform-icon"
	ClassRequired    ChromeClass = "rowform-required"
	ClassDescription ChromeClass = "rowform-description"
	ClassActions     ChromeClass = "rowform-actions"
)

func chromeClasses() map[string]string {
	return map[string]string{
		"dialog":  string(ClassDialog),
		"form":    string(ClassForm),
		"header":  string(ClassHeader),
		"fields":  string(ClassFields),
		"actions": string(ClassActions),
	}
}
