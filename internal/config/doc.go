// Package config holds the section model and the layered registry that
// merges section declarations into a single applied view.
//
// A section is an identified, property-bearing configuration unit of a given
// kind: DataNodeConfig, TaskConfig or ScenarioConfig. Sections arrive through
// three layers:
//
//   - the default layer: one built-in default section per kind;
//   - the python layer: sections declared programmatically through the
//     Registry's Configure and SetDefault methods;
//   - the file layer: sections read from a declarative source by a Loader.
//
// The applied layer is recomputed whenever any other layer changes. For each
// field, the file layer wins over the python layer, which wins over the
// kind's default section; property maps are merged key by key with the same
// precedence. Applied instances are never replaced: re-declaring a section
// updates the instance earlier callers already hold.
//
// References between sections (task inputs and outputs, scenario tasks and
// additional data nodes) are non-owning: they are bound by id to the applied
// instance of the referenced section each time the applied layer is rebuilt.
package config
