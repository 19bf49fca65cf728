// Package taxonomy lays out a record's taxonomic chain as node/edge geometry.
//
// Layout is pure: the present canonical ranks are placed kingdom first along a
// horizontal axis (wide) or a vertical axis (narrow), consecutive ranks are
// joined by edges, and the diagram reports a bounding size that contains every
// node. Absent ranks leave no gaps. The caller always picks the mode.
package taxonomy
