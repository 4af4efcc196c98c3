// Package mediatypes holds the image extension rules shared by the scanner,
// the configuration loader and the CLI.
//
// Extensions are always handled lowercase and without the leading dot:
//
//	set, err := mediatypes.NewExtensionSet([]string{".JPG", "png"})
//	ext, ok := mediatypes.ExtensionOf("photo.JPG") // "jpg", true
//	set.Contains(ext)                             // true
//
// An empty configuration falls back to DefaultExtensions.
package mediatypes
