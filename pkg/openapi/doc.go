// Package openapi derives row templates from OpenAPI 3 request bodies.
//
// The request body of an operation must be an object schema; each property
// becomes a column. Mapping rules:
//
//   - format date or date-time becomes a date column
//   - enum becomes a select column with one option per value
//   - x-rowform-type: user with x-rowform-options becomes a user column
//   - anything else becomes a text column
//
// x-rowform-type may also force text, date or select. Properties listed under
// the object's x-rowform-order come first, in that order; the rest follow
// sorted by name.
package openapi
