// Package renderer turns a classified Chronicle into the Markdown report and
// manages the chronicle files in the output directory.
//
// Written files carry a YAML front matter block with an mdfp content
// fingerprint so later commands can tell whether a report was edited.
package renderer
