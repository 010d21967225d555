// Package host is a reference host for row forms. A Session owns the field
// values for one form and wires the form callbacks to them; a Manager keeps
// sessions by id for hosts that serve many users at once.
//
// Submitting hands a snapshot of the values to the SubmitHandler, then
// clears the values and hides the form. Cancelling only hides the form: the
// values stay so reopening shows what was typed.
package host
