// Package model defines the Person aggregate and its value entities.
//
// A Person always owns one Coordinates value and at most one Location value.
// At the API boundary both are carried by value; in storage they are rows in
// their own tables referenced by foreign key. ID fields are zero until the
// store assigns them.
//
// This package imports nothing internal.
package model
