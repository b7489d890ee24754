// Package harness runs scripted person-collection scenarios end to end.
//
// A scenario is a YAML file listing steps (add, get, update, remove,
// check_access) performed by numbered users against a fresh in-memory
// store, followed by assertions over the resulting rows. Every step is
// recorded in a trace so whole runs can be compared against golden files.
//
// Each run uses a stepping clock and a fixed operation id, so two runs of
// the same scenario produce identical traces and identical generated keys.
//
// Example scenario:
//
//	name: detach_location
//	description: "updating without a location clears the reference"
//	steps:
//	  - action: add
//	    as: 7
//	    bind: ada
//	    person: {name: Ada, ...}
//	  - action: update
//	    as: 7
//	    target: ada
//	    person: {name: Ada, ...}
//	assertions:
//	  - type: person_field
//	    target: ada
//	    field: location
//	    equals: "<none>"
package harness
