// Package model defines the declarative row schema consumed by the form core
// and its renderers. A Template is an ordered list of Columns; each column
// declares a DataType that ControlKindFor maps onto one of four controls
// (text, select, user, date), with unknown types falling back to text.
// FieldValues is the host-owned record keyed by column name. JSON and YAML
// tags keep the snake_case wire names (`data_type`, `user_id`) used by
// template files.
package model
