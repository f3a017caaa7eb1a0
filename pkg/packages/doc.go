// Package packages reconciles the package lists declared in profile folders
// against what the machine actually has installed.
//
// A profile is a folder under the profiles root holding up to three plain
// text lists, one package name per line:
//
//	<profiles>/<name>/tracked         OS packages the profile wants
//	<profiles>/<name>/ignore          OS packages never to install
//	<profiles>/<name>/python_tracked  python packages the profile wants
//
// A missing list reads as empty. Everything here is set algebra over those
// lists plus the installed snapshot reported by an external enumerator
// command; order of profiles never changes a result.
package packages
