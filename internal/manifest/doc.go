// Package manifest reads the direct dependencies declared by a project.
//
// Only the key set of the "dependencies" object in package.json is used.
// devDependencies, peerDependencies and version specifiers are ignored.
package manifest
