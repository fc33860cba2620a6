// Package brief canonicalizes raw user input into the parameter set the
// prompt builder consumes. Assembly is the only place defaults are applied:
// downstream packages always see a fully populated Brief and never reason
// about absent fields.
package brief
