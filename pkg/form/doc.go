// Package form implements the dynamic row form: a stateless view over a
// host-owned record. Render turns a template, the current FieldValues and a
// visibility flag into a Presentation; Dispatch turns one user interaction
// into exactly one host callback. Malformed schema data (missing options,
// stored values matching no option, unparsable dates) renders as an empty
// control rather than failing.
package form
