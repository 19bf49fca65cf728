// Package identify converts captured images into identification requests and
// reduces backend responses to canonical history records.
//
// Build assembles the request payload; Normalize picks the top suggestion and
// derives the record's display name, confidence, identifier, and timestamp.
// Both are pure. Location lookup for submissions lives here too: a Locator is
// consulted once per submission and any failure simply omits coordinates.
package identify
